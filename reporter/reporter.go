package reporter

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// ErrRateLimited is returned when the model keeps answering 429 past the
// retry budget. The caller records the unit as skipped and moves on.
var ErrRateLimited = errors.New("rate limited after retries")

// ChatClient is the one call this package needs from the OpenAI SDK.
// *openai.Client satisfies it; tests inject a fake.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// RetryPolicy bounds the rate-limit retry loop. Backoff[i] is the wait
// before retry i+1; any non-429 error is never retried.
type RetryPolicy struct {
	MaxRetries int
	Backoff    []time.Duration
}

// DefaultRetryPolicy matches the external rate ceiling: three retries at
// 10s, 20s and 40s.
var DefaultRetryPolicy = RetryPolicy{
	MaxRetries: 3,
	Backoff:    []time.Duration{10 * time.Second, 20 * time.Second, 40 * time.Second},
}

func (p RetryPolicy) wait(attempt int) time.Duration {
	if attempt < len(p.Backoff) {
		return p.Backoff[attempt]
	}
	if len(p.Backoff) == 0 {
		return 10 * time.Second
	}
	return p.Backoff[len(p.Backoff)-1]
}

// Reporter writes executive reports from sanitized unit feedback. The
// client and model come in at construction; nothing here reads the
// environment.
type Reporter struct {
	client ChatClient
	model  string
	policy RetryPolicy
}

func New(client ChatClient, model string, policy RetryPolicy) *Reporter {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &Reporter{client: client, model: model, policy: policy}
}

// UnitReport generates the executive report for one unit from its
// sanitized comments, embedded as numbered evidence items.
func (r *Reporter) UnitReport(ctx context.Context, unitCode string, comments []string) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Unidade: %s\n\nComentários de clientes desta semana:\n", unitCode)
	for i, c := range comments {
		fmt.Fprintf(&b, "%d. %s\n", i+1, c)
	}
	b.WriteString("\nEscreva um relatório executivo curto para a liderança regional: principais elogios, principais problemas e uma recomendação prática.")

	return r.complete(ctx, unitSystemPrompt, b.String())
}

// RegionalSummary condenses the per-unit reports into one regional view.
func (r *Reporter) RegionalSummary(ctx context.Context, reports map[string]string) (string, error) {
	codes := make([]string, 0, len(reports))
	for code := range reports {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	var b strings.Builder
	b.WriteString("Relatórios por unidade:\n\n")
	for _, code := range codes {
		fmt.Fprintf(&b, "## %s\n%s\n\n", code, reports[code])
	}
	b.WriteString("Resuma o desempenho da região em até 6 pontos, destacando unidades que precisam de atenção.")

	return r.complete(ctx, regionalSystemPrompt, b.String())
}

const unitSystemPrompt = "Você é um analista de experiência do cliente de uma rede de academias. " +
	"Responda em português, de forma direta, sem jargão e sem preâmbulos."

const regionalSystemPrompt = "Você é um analista regional de uma rede de academias. " +
	"Responda em português com pontos curtos e acionáveis."

// complete runs one chat completion under the retry policy: 429 responses
// are retried with backoff, everything else propagates immediately.
func (r *Reporter) complete(ctx context.Context, system, user string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	}

	for attempt := 0; ; attempt++ {
		resp, err := r.client.CreateChatCompletion(ctx, req)
		if err == nil {
			if len(resp.Choices) == 0 {
				return "", errors.New("model returned no choices")
			}
			return strings.TrimSpace(resp.Choices[0].Message.Content), nil
		}

		var apiErr *openai.APIError
		if !errors.As(err, &apiErr) || apiErr.HTTPStatusCode != 429 {
			return "", fmt.Errorf("chat completion: %w", err)
		}
		if attempt >= r.policy.MaxRetries {
			return "", fmt.Errorf("%w (%d attempts)", ErrRateLimited, attempt+1)
		}
		if err := sleep(ctx, r.policy.wait(attempt)); err != nil {
			return "", err
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
