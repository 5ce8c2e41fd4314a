package repositories_test

import (
	"context"
	"errors"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	appErrors "github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/core/errors"
	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/data/models"
	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/repositories"
	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/testhelpers"
)

var _ = Describe("ProcessoAPIRepository", func() {
	var (
		transport *testhelpers.MockTransport
		repo      repositories.ProcessoAPIRepository
		payload   models.ProcessoCadastroPayload
	)

	BeforeEach(func() {
		transport = testhelpers.NewMockTransport()
		repo = repositories.NewHTTPProcessoAPIRepository(testhelpers.APIBaseURL+"/", transport.Client(), 0)
		payload = testhelpers.ExpectedPayload()
	})

	It("builds the endpoint from the base URL", func() {
		Expect(repo.Endpoint()).To(Equal(testhelpers.APIBaseURL + repositories.ProcessoCadastroPath))
	})

	It("posts the payload as JSON and returns the raw response", func() {
		transport.Expect(testhelpers.APIBaseURL).
			Post(repositories.ProcessoCadastroPath).
			Reply(http.StatusOK).
			JSON(map[string]interface{}{"success": true})

		resp, err := repo.Cadastrar(context.Background(), &payload)
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(resp.Body).To(MatchJSON(`{"success": true}`))

		Expect(transport.RequestCount()).To(Equal(1))
		req, _ := transport.LastRequest()
		Expect(req.Method).To(Equal(http.MethodPost))
		Expect(req.Header.Get("Content-Type")).To(Equal("application/json"))

		var sent models.ProcessoCadastroPayload
		Expect(req.DecodeJSON(&sent)).To(Succeed())
		Expect(sent).To(Equal(payload))
	})

	It("wraps a non JSON success body as a JSON string", func() {
		transport.Expect(testhelpers.APIBaseURL).
			Post(repositories.ProcessoCadastroPath).
			Reply(http.StatusCreated).
			BodyString("Cadastrado")

		resp, err := repo.Cadastrar(context.Background(), &payload)
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.Body).To(MatchJSON(`"Cadastrado"`))
	})

	It("returns null for an empty success body", func() {
		transport.Expect(testhelpers.APIBaseURL).
			Post(repositories.ProcessoCadastroPath).
			Reply(http.StatusNoContent)

		resp, err := repo.Cadastrar(context.Background(), &payload)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(resp.Body)).To(Equal("null"))
	})

	It("returns a NetworkError with status and body for non 2xx responses", func() {
		transport.Expect(testhelpers.APIBaseURL).
			Post(repositories.ProcessoCadastroPath).
			Reply(http.StatusInternalServerError).
			BodyString("erro interno")

		resp, err := repo.Cadastrar(context.Background(), &payload)
		Expect(resp).To(BeNil())
		Expect(errors.Is(err, appErrors.ErrNetwork)).To(BeTrue())

		var ne *appErrors.NetworkError
		Expect(errors.As(err, &ne)).To(BeTrue())
		Expect(ne.StatusCode).To(Equal(http.StatusInternalServerError))
		Expect(ne.Body).To(Equal("erro interno"))
		Expect(transport.RequestCount()).To(Equal(1))
	})

	It("returns a NetworkError carrying the transport cause", func() {
		cause := errors.New("connection refused")
		transport.Expect(testhelpers.APIBaseURL).
			Post(repositories.ProcessoCadastroPath).
			ReplyError(cause)

		_, err := repo.Cadastrar(context.Background(), &payload)
		Expect(errors.Is(err, appErrors.ErrNetwork)).To(BeTrue())
		Expect(errors.Is(err, cause)).To(BeTrue())
		Expect(transport.RequestCount()).To(Equal(1))
	})

	It("rejects a nil payload without sending", func() {
		_, err := repo.Cadastrar(context.Background(), nil)
		Expect(errors.Is(err, appErrors.ErrInvalidInput)).To(BeTrue())
		Expect(transport.RequestCount()).To(Equal(0))
	})
})
