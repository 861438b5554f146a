package advisor

import (
	"context"
	"fmt"
	"strings"

	"homemeds/m/domain"
)

const systemPrompt = `You are a careful household pharmacist. Answer using the household medicine stock listed below.
Only unexpired stock is listed; never suggest medicine that is not on the list as if the household had it.
Point out contraindications and child-use limits when they matter, and recommend seeing a doctor for anything serious.

Household stock:
`

// Answer is the reply to a question together with the context it was given.
type Answer struct {
	Context string `json:"context"`
	Reply   string `json:"reply"`
}

// Advisor asks the chat service about the current stock.
type Advisor struct {
	builder *Builder
	client  Client
}

// New returns an Advisor. A nil client makes Ask fail with an external-service error.
func New(builder *Builder, client Client) *Advisor {
	return &Advisor{builder: builder, client: client}
}

// Ask builds the context first, then sends it with the question. Failures of
// the chat service wrap domain.ErrExternalService and never touch the stores.
func (a *Advisor) Ask(ctx context.Context, question string) (Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Answer{}, domain.Validationf("question is required")
	}
	stock, err := a.builder.BuildContext(ctx)
	if err != nil {
		return Answer{}, err
	}
	if a.client == nil {
		return Answer{Context: stock}, fmt.Errorf("%w: chat service is not configured", domain.ErrExternalService)
	}

	reply, err := a.client.Complete(ctx, []Message{
		{Role: "system", Content: systemPrompt + stock},
		{Role: "user", Content: question},
	})
	if err != nil {
		return Answer{Context: stock}, fmt.Errorf("%w: %v", domain.ErrExternalService, err)
	}
	return Answer{Context: stock, Reply: reply}, nil
}
