package llm

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct{ ops []string }

func (r *recordingObserver) ObserveLLMOp(operation, status string, _ float64) {
	r.ops = append(r.ops, operation+":"+status)
}

func newTestLLMHandler(gen Generator, search Searcher, obs Observer) http.Handler {
	svc := NewService(gen, NewPrerequisitesAdvisor(search, gen, nil), obs, nil)
	return NewHandler(svc, nil).Routes()
}

func post(h http.Handler, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
	return w
}

func TestHandlerDocumentEndpoints(t *testing.T) {
	gen := &stubGenerator{text: "generated document"}
	obs := &recordingObserver{}
	h := newTestLLMHandler(gen, &stubSearcher{result: "x"}, obs)

	clinical := `{"text":"Patient complains of headache for 3 days.","doctor_notes":"BP 140/90","patient_information":"45M"}`

	w := post(h, "/soap-note", clinical)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"soap_note":"generated document"}`, w.Body.String())
	assert.Contains(t, gen.prompts[0], "BP 140/90")
	assert.Contains(t, gen.prompts[0], "Subjective (S)")

	w = post(h, "/referral-letter", clinical)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"referral_letter":"generated document"}`, w.Body.String())

	w = post(h, "/transcription-summary", `{"text":"Doctor and patient discussed sleep."}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"summary":"generated document"}`, w.Body.String())

	assert.Equal(t, []string{"soap_note:ok", "referral_letter:ok", "summary:ok"}, obs.ops)
}

func TestHandlerGenerationFailureIs500(t *testing.T) {
	gen := &stubGenerator{err: errors.Join(ErrGeneration, errors.New("model overloaded"))}
	h := newTestLLMHandler(gen, nil, nil)

	w := post(h, "/soap-note", `{"text":"hello","doctor_notes":"","patient_information":""}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "model overloaded")
}

func TestHandlerRejectsEmptyText(t *testing.T) {
	h := newTestLLMHandler(&stubGenerator{text: "x"}, nil, nil)
	w := post(h, "/transcription-summary", `{"text":"  "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = post(h, "/prerequisites", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = post(h, "/soap-note", `oops`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlerPrerequisitesNeverFails(t *testing.T) {
	gen := &stubGenerator{err: ErrGeneration}
	h := newTestLLMHandler(gen, &stubSearcher{err: errors.New("offline")}, nil)

	w := post(h, "/prerequisites", `{"condition":"diabetes"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "I'm sorry")

	w = post(h, "/prerequisites", `{"condition":"hello"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "medical condition")
	assert.Len(t, gen.prompts, 1)
}

func TestHandlerPrerequisitesRequiresCondition(t *testing.T) {
	gen := &stubGenerator{text: "unused"}
	search := &stubSearcher{result: "unused"}
	h := newTestLLMHandler(gen, search, nil)

	for _, body := range []string{`{"condition":""}`, `{"condition":"   "}`, `{}`} {
		w := post(h, "/prerequisites", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.JSONEq(t, `{"detail":"condition is required"}`, w.Body.String(), body)
	}
	assert.Empty(t, gen.prompts)
	assert.Empty(t, search.queries)
}
