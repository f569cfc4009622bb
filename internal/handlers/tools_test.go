package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"studybuddy/internal/llm"
	"studybuddy/internal/service"
)

func authedPostJSON(path, body string) *http.Request {
	req := postJSON(path, body)
	req.Header.Set("Authorization", "Bearer good-token")
	return req
}

func TestExplain_Success(t *testing.T) {
	var gotUser string
	var gotParams service.ExplainParams
	tools := &mockTools{
		ExplainFn: func(ctx context.Context, username string, p service.ExplainParams) (string, error) {
			gotUser = username
			gotParams = p
			return "Gravity pulls things together.", nil
		},
	}
	auth := &mockAuthorization{ParseTokenFn: validParseToken("good-token", "alice")}
	router := newTestRouter(auth, tools, nil)

	w := doRequest(router, authedPostJSON("/api/v1/tools/explain",
		`{"topic":"Gravity","style":"Like I'm 10 years old"}`))

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d (body=%s)", w.Code, w.Body.String())
	}
	if got := jsonBody(t, w)["response"]; got != "Gravity pulls things together." {
		t.Fatalf("response: got %v", got)
	}
	if gotUser != "alice" {
		t.Fatalf("username: got %q", gotUser)
	}
	if gotParams.Topic != "Gravity" || gotParams.Style != "Like I'm 10 years old" {
		t.Fatalf("params not forwarded: %+v", gotParams)
	}
}

func TestExplain_FailureMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{
			name:     "quota exceeded",
			err:      llm.ErrQuotaExceeded,
			wantCode: http.StatusServiceUnavailable,
			wantMsg:  msgQuotaExceeded,
		},
		{
			name:     "transient failure",
			err:      errors.New("connection reset by peer"),
			wantCode: http.StatusBadGateway,
			wantMsg:  msgTransient,
		},
		{
			name:     "invalid input",
			err:      service.ErrInvalidInput,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tools := &mockTools{
				ExplainFn: func(ctx context.Context, username string, p service.ExplainParams) (string, error) {
					return "", tt.err
				},
			}
			auth := &mockAuthorization{ParseTokenFn: validParseToken("good-token", "alice")}
			router := newTestRouter(auth, tools, nil)

			w := doRequest(router, authedPostJSON("/api/v1/tools/explain", `{"topic":"Gravity"}`))

			if w.Code != tt.wantCode {
				t.Fatalf("status: got %d, want %d (body=%s)", w.Code, tt.wantCode, w.Body.String())
			}
			if tt.wantMsg != "" {
				if got := jsonBody(t, w)["error"]; got != tt.wantMsg {
					t.Fatalf("error: got %v, want %q", got, tt.wantMsg)
				}
			}
		})
	}
}

func TestTools_RequireAuth(t *testing.T) {
	router := newTestRouter(&mockAuthorization{}, &mockTools{}, nil)

	for _, path := range []string{
		"/api/v1/tools/explain",
		"/api/v1/tools/summarize",
		"/api/v1/tools/quiz",
		"/api/v1/tools/flashcards",
	} {
		w := doRequest(router, postJSON(path, `{}`))
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s: got %d, want 401", path, w.Code)
		}
	}
}

func TestTools_MissingRequiredField(t *testing.T) {
	auth := &mockAuthorization{ParseTokenFn: validParseToken("good-token", "alice")}
	router := newTestRouter(auth, &mockTools{}, nil)

	tests := []struct {
		path string
		body string
	}{
		{path: "/api/v1/tools/explain", body: `{"style":"simple"}`},
		{path: "/api/v1/tools/summarize", body: `{"length":"short"}`},
		{path: "/api/v1/tools/quiz", body: `{"questions":5}`},
		{path: "/api/v1/tools/flashcards", body: `{"count":5}`},
	}
	for _, tt := range tests {
		w := doRequest(router, authedPostJSON(tt.path, tt.body))
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: got %d, want 400 (body=%s)", tt.path, w.Code, w.Body.String())
		}
	}
}

func TestSummarize_ForwardsParams(t *testing.T) {
	var gotParams service.SummarizeParams
	tools := &mockTools{
		SummarizeFn: func(ctx context.Context, username string, p service.SummarizeParams) (string, error) {
			gotParams = p
			return "- key point", nil
		},
	}
	auth := &mockAuthorization{ParseTokenFn: validParseToken("good-token", "bob")}
	router := newTestRouter(auth, tools, nil)

	w := doRequest(router, authedPostJSON("/api/v1/tools/summarize",
		`{"notes":"long notes here","length":"A few key bullet points"}`))

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d (body=%s)", w.Code, w.Body.String())
	}
	if gotParams.Notes != "long notes here" || gotParams.Length != "A few key bullet points" {
		t.Fatalf("params not forwarded: %+v", gotParams)
	}
}

func TestQuiz_ForwardsCount(t *testing.T) {
	var gotParams service.QuizParams
	tools := &mockTools{
		QuizFn: func(ctx context.Context, username string, p service.QuizParams) (string, error) {
			gotParams = p
			return "1. ...", nil
		},
	}
	auth := &mockAuthorization{ParseTokenFn: validParseToken("good-token", "carol")}
	router := newTestRouter(auth, tools, nil)

	w := doRequest(router, authedPostJSON("/api/v1/tools/quiz",
		`{"material":"Cell biology","questions":7}`))

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d (body=%s)", w.Code, w.Body.String())
	}
	if gotParams.Material != "Cell biology" || gotParams.Questions != 7 {
		t.Fatalf("params not forwarded: %+v", gotParams)
	}
}

func TestFlashcards_ForwardsCount(t *testing.T) {
	var gotParams service.FlashcardsParams
	tools := &mockTools{
		FlashcardsFn: func(ctx context.Context, username string, p service.FlashcardsParams) (string, error) {
			gotParams = p
			return "Term: ...", nil
		},
	}
	auth := &mockAuthorization{ParseTokenFn: validParseToken("good-token", "dave")}
	router := newTestRouter(auth, tools, nil)

	w := doRequest(router, authedPostJSON("/api/v1/tools/flashcards",
		`{"material":"French vocabulary","count":12}`))

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d (body=%s)", w.Code, w.Body.String())
	}
	if gotParams.Material != "French vocabulary" || gotParams.Count != 12 {
		t.Fatalf("params not forwarded: %+v", gotParams)
	}
}
