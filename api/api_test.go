package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gofiber/fiber/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/flowwed/emily/pkg/chat"
	"github.com/flowwed/emily/pkg/extract"
	"github.com/flowwed/emily/pkg/llm"
	"github.com/flowwed/emily/pkg/memory/inmemory"
	"github.com/flowwed/emily/pkg/prompt"
	"github.com/flowwed/emily/pkg/session"
)

// testEngine returns a canned reply or a canned error.
type testEngine struct {
	reply string
	err   error
}

func (e *testEngine) Complete(context.Context, []llm.Message) (string, error) {
	return e.reply, e.err
}

func (e *testEngine) CompleteJSON(context.Context, []llm.Message) (string, error) {
	return "{}", nil
}

func postChat(server *Server, query, body string) (*http.Response, error) {
	target := "/chat"
	if query != "" {
		target += "?" + query
	}

	var reader io.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	}

	req, err := http.NewRequest(http.MethodPost, target, reader)
	if err != nil {
		return nil, err
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return server.app.Test(req)
}

func decodeReply(resp *http.Response) string {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	Expect(err).NotTo(HaveOccurred())

	var parsed chatResponse
	Expect(json.Unmarshal(body, &parsed)).To(Succeed())
	return parsed.Reply
}

var _ = Describe("Chat Handlers", func() {
	var (
		engine   *testEngine
		memories *inmemory.Store
		server   *Server
	)

	BeforeEach(func() {
		engine = &testEngine{reply: "Gladly."}
		memories = inmemory.NewStore()

		loader, err := prompt.NewLoader("", nil)
		Expect(err).NotTo(HaveOccurred())

		logger, _ := zap.NewDevelopment()
		orch, err := chat.New(chat.Options{
			Engine:     engine,
			Memories:   memories,
			Sessions:   session.NewInMemoryStore(),
			Prompts:    loader,
			Extractors: []extract.Extractor{extract.NewRules()},
			Logger:     logger,
		})
		Expect(err).NotTo(HaveOccurred())

		server = NewServer(Config{ListenAddr: ":0"}, orch, logger)
	})

	Describe("GET /", func() {
		It("returns a status payload", func() {
			req, err := http.NewRequest(http.MethodGet, "/", nil)
			Expect(err).NotTo(HaveOccurred())

			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())

			var parsed map[string]any
			Expect(json.Unmarshal(body, &parsed)).To(Succeed())
			Expect(parsed["service"]).To(Equal("emily"))
			Expect(parsed["status"]).To(Equal("ok"))
		})
	})

	Describe("POST /chat", func() {
		It("returns the greeting for an empty body", func() {
			resp, err := postChat(server, "", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			Expect(decodeReply(resp)).To(Equal(chat.FirstGreeting))
		})

		It("returns the greeting for a blank text field", func() {
			resp, err := postChat(server, "", `{"text": "   "}`)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			Expect(decodeReply(resp)).To(Equal(chat.FirstGreeting))
		})

		It("returns the engine reply for a normal turn", func() {
			resp, err := postChat(server, "", `{"text": "hello"}`)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			Expect(decodeReply(resp)).To(Equal("Gladly."))
		})

		It("threads identity from query parameters", func() {
			resp, err := postChat(server, "token=couple42&page=Gallery&_=s1", `{"text": "my name is alice"}`)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			doc, found, err := memories.Load(context.Background(), "couple42")
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeTrue())
			Expect(doc.Profile.Name).To(Equal("Alice"))
		})

		It("maps completion failures to a bad gateway with the generic reply", func() {
			engine.err = fmt.Errorf("%w: upstream returned status 429", llm.ErrCompletion)

			resp, err := postChat(server, "", `{"text": "hello"}`)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadGateway))
			Expect(decodeReply(resp)).To(Equal("Backend error"))
		})

		It("rejects a malformed body without panicking", func() {
			resp, err := postChat(server, "", `{"text": `)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
			Expect(decodeReply(resp)).To(Equal("Backend error"))
		})
	})
})
