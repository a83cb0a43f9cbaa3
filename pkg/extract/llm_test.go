package extract_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/flowwed/emily/pkg/extract"
	"github.com/flowwed/emily/pkg/llm"
)

// fakeEngine returns a canned JSON payload (or error) for CompleteJSON.
type fakeEngine struct {
	jsonReply string
	err       error
	lastJSON  []llm.Message
}

func (f *fakeEngine) Complete(_ context.Context, _ []llm.Message) (string, error) {
	return "", errors.New("unexpected Complete call")
}

func (f *fakeEngine) CompleteJSON(_ context.Context, messages []llm.Message) (string, error) {
	f.lastJSON = messages
	return f.jsonReply, f.err
}

var _ = Describe("LLM", func() {
	var (
		engine    *fakeEngine
		extractor *extract.LLM
		ctx       context.Context
		ex        extract.Exchange
	)

	BeforeEach(func() {
		engine = &fakeEngine{}
		extractor = extract.NewLLM(engine)
		ctx = context.Background()
		ex = extract.Exchange{
			UserText:       "we want a rustic wedding in tuscany for 60 people",
			AssistantReply: "Tuscany is lovely for rustic weddings.",
		}
	})

	It("parses the strict-JSON update", func() {
		engine.jsonReply = `{"wedding":{"city":"Tuscany","style":"rustic","guest_count":60}}`
		upd, err := extractor.Extract(ctx, ex)
		Expect(err).NotTo(HaveOccurred())
		Expect(upd.Wedding.City).To(Equal("Tuscany"))
		Expect(upd.Wedding.Style).To(Equal("rustic"))
		Expect(upd.Wedding.GuestCount).To(Equal(60))
	})

	It("embeds both sides of the exchange in the instruction prompt", func() {
		engine.jsonReply = `{}`
		_, err := extractor.Extract(ctx, ex)
		Expect(err).NotTo(HaveOccurred())
		Expect(engine.lastJSON).To(HaveLen(1))
		Expect(engine.lastJSON[0].Content).To(ContainSubstring(ex.UserText))
		Expect(engine.lastJSON[0].Content).To(ContainSubstring(ex.AssistantReply))
	})

	It("tolerates a markdown-fenced object", func() {
		engine.jsonReply = "```json\n{\"profile\":{\"name\":\"Alice\"}}\n```"
		upd, err := extractor.Extract(ctx, ex)
		Expect(err).NotTo(HaveOccurred())
		Expect(upd.Profile.Name).To(Equal("Alice"))
	})

	It("drops unknown keys instead of merging them", func() {
		engine.jsonReply = `{"profile":{"name":"Alice","assistant_name":"Emily"},"surprise":true}`
		upd, err := extractor.Extract(ctx, ex)
		Expect(err).NotTo(HaveOccurred())
		Expect(upd.Profile.Name).To(Equal("Alice"))
	})

	It("never lets the model set the conversation mode", func() {
		engine.jsonReply = `{"mode":"wedding"}`
		upd, err := extractor.Extract(ctx, ex)
		Expect(err).NotTo(HaveOccurred())
		Expect(upd.Mode).To(BeEmpty())
	})

	It("returns ErrMalformed for non-JSON output", func() {
		engine.jsonReply = "I could not find any facts."
		_, err := extractor.Extract(ctx, ex)
		Expect(err).To(MatchError(extract.ErrMalformed))
	})

	It("passes engine failures through", func() {
		engine.err = llm.ErrCompletion
		_, err := extractor.Extract(ctx, ex)
		Expect(err).To(MatchError(llm.ErrCompletion))
	})
})
