package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/apply-agent/internal/browser"
	"github.com/jonathan/apply-agent/internal/classify"
	"github.com/jonathan/apply-agent/internal/extract"
	"github.com/jonathan/apply-agent/internal/fetch"
	"github.com/jonathan/apply-agent/internal/llm"
	"github.com/jonathan/apply-agent/internal/pipeline"
	"github.com/jonathan/apply-agent/internal/prompts"
	"github.com/jonathan/apply-agent/internal/summarize"
	"github.com/jonathan/apply-agent/internal/types"
)

// fillAPIRequest is the /fill request body. Either an inline profile
// or a stored profile ID must be supplied.
type fillAPIRequest struct {
	Profile        *types.Profile `json:"profile,omitempty"`
	ProfileID      string         `json:"profile_id,omitempty"`
	URL            string         `json:"url" validate:"required,url"`
	ResumeText     string         `json:"resume_text,omitempty"`
	CoverLetter    string         `json:"cover_letter,omitempty"`
	JobDescription string         `json:"job_description,omitempty"`
}

// handleFill drives a headless browser to the form URL and runs one
// full fill pass.
func (s *Server) handleFill(w http.ResponseWriter, r *http.Request) {
	var req fillAPIRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	prof, err := s.resolveProfile(r.Context(), &req)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	drv, err := browser.New(r.Context(), req.URL, s.browserWait, s.verbose)
	if err != nil {
		s.errorResponse(w, http.StatusBadGateway, fmt.Sprintf("failed to open page: %v", err))
		return
	}
	defer drv.Close()

	var runID uuid.UUID
	if s.db != nil {
		runID, _ = s.db.CreateFillRun(r.Context(), nil, req.URL)
	}

	opts := pipeline.Options{
		Aux: classify.Aux{
			JobDescription: req.JobDescription,
			CoverLetter:    req.CoverLetter,
		},
		Verbose: s.verbose,
	}
	if s.session.Availability() != llm.AvailabilityUnavailable {
		opts.Generator = s.session
	}

	report, err := pipeline.Run(r.Context(), drv, prof, opts)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	if s.db != nil && runID != uuid.Nil {
		_ = s.db.CompleteFillRun(r.Context(), runID, report)
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"run_id": runID,
		"report": report,
	})
}

// resolveProfile picks the inline profile or loads the stored one.
func (s *Server) resolveProfile(ctx context.Context, req *fillAPIRequest) (*types.Profile, error) {
	if req.Profile != nil {
		if err := s.validator.Struct(req.Profile); err != nil {
			return nil, &ErrValidation{Field: "profile", Message: err.Error()}
		}
		return req.Profile, nil
	}
	if req.ProfileID == "" {
		return nil, &ErrValidation{Field: "profile", Message: "profile or profile_id is required"}
	}
	id, err := uuid.Parse(req.ProfileID)
	if err != nil {
		return nil, &ErrValidation{Field: "profile_id", Message: "must be a UUID"}
	}
	if s.db == nil {
		return nil, &ErrNoDatabase{}
	}
	stored, err := s.db.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, &ErrProfileNotFound{ProfileID: id}
	}
	return stored.Profile, nil
}

// extractAPIRequest is the /extract-profile request body.
type extractAPIRequest struct {
	ResumeText string `json:"resume_text" validate:"required"`
	Save       bool   `json:"save,omitempty"`
}

// handleExtractProfile turns resume text into a structured profile.
// With a generation backend the text goes through the extraction
// prompt first; without one the text is parsed directly, which works
// when it already carries the block or JSON conventions.
func (s *Server) handleExtractProfile(w http.ResponseWriter, r *http.Request) {
	var req extractAPIRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	raw := req.ResumeText
	if s.session.Availability() != llm.AvailabilityUnavailable {
		prompt := prompts.Format(prompts.MustGet("extraction.json", "resume-profile"), map[string]string{
			"ResumeText": req.ResumeText,
		})
		if out, err := s.session.Generate(r.Context(), prompt); err == nil {
			raw = out
		}
	}

	prof, err := extract.Extract(raw)
	if err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity,
			"could not extract a usable profile; please enter details manually")
		return
	}

	var id uuid.UUID
	if req.Save {
		if s.db == nil {
			s.errorResponse(w, HTTPStatus(&ErrNoDatabase{}), (&ErrNoDatabase{}).Error())
			return
		}
		id, err = s.db.SaveProfile(r.Context(), uuid.Nil, "", prof)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"profile_id": id,
		"profile":    prof,
	})
}

// summarizeAPIRequest is the /summarize request body.
type summarizeAPIRequest struct {
	URL       string         `json:"url,omitempty" validate:"omitempty,url"`
	JobText   string         `json:"job_text,omitempty"`
	Profile   *types.Profile `json:"profile,omitempty"`
	ProfileID string         `json:"profile_id,omitempty"`
}

// handleSummarize produces a job summary and optional cover letter.
func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req summarizeAPIRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}
	if req.URL == "" && req.JobText == "" {
		s.errorResponse(w, http.StatusBadRequest, "url or job_text is required")
		return
	}

	jobText := req.JobText
	if jobText == "" {
		fetcher := fetch.NewCachedFetcher(s.db, nil)
		text, err := fetch.JobPostingText(r.Context(), req.URL, &fetch.PostingOptions{
			Fetcher:        fetcher,
			DisableBrowser: !s.useBrowser,
			Verbose:        s.verbose,
		})
		if err != nil {
			s.errorResponse(w, http.StatusBadGateway, fmt.Sprintf("failed to fetch posting: %v", err))
			return
		}
		jobText = text
	}

	var prof *types.Profile
	if req.Profile != nil {
		prof = req.Profile
	} else if req.ProfileID != "" {
		id, err := uuid.Parse(req.ProfileID)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "profile_id must be a UUID")
			return
		}
		if s.db == nil {
			s.errorResponse(w, HTTPStatus(&ErrNoDatabase{}), (&ErrNoDatabase{}).Error())
			return
		}
		stored, err := s.db.GetProfile(r.Context(), id)
		if err != nil || stored == nil {
			s.errorResponse(w, http.StatusNotFound, "profile not found")
			return
		}
		prof = stored.Profile
	}

	result, err := summarize.Run(r.Context(), s.session, jobText, prof)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// Profiles CRUD

func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.errorResponse(w, HTTPStatus(&ErrNoDatabase{}), (&ErrNoDatabase{}).Error())
		return
	}
	list, err := s.db.ListProfiles(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]map[string]any, 0, len(list))
	for _, p := range list {
		out = append(out, map[string]any{
			"id":         p.ID,
			"name":       p.Name,
			"created_at": p.CreatedAt,
			"updated_at": p.UpdatedAt,
		})
	}
	s.jsonResponse(w, http.StatusOK, out)
}

func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.errorResponse(w, HTTPStatus(&ErrNoDatabase{}), (&ErrNoDatabase{}).Error())
		return
	}
	var prof types.Profile
	if err := json.NewDecoder(r.Body).Decode(&prof); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validator.Struct(&prof); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}
	id, err := s.db.SaveProfile(r.Context(), uuid.Nil, "", &prof)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusCreated, map[string]any{"id": id})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathUUID(w, r)
	if !ok {
		return
	}
	if s.db == nil {
		s.errorResponse(w, HTTPStatus(&ErrNoDatabase{}), (&ErrNoDatabase{}).Error())
		return
	}
	stored, err := s.db.GetProfile(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if stored == nil {
		notFound := &ErrProfileNotFound{ProfileID: id}
		s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"id":         stored.ID,
		"name":       stored.Name,
		"profile":    stored.Profile,
		"created_at": stored.CreatedAt,
		"updated_at": stored.UpdatedAt,
	})
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathUUID(w, r)
	if !ok {
		return
	}
	if s.db == nil {
		s.errorResponse(w, HTTPStatus(&ErrNoDatabase{}), (&ErrNoDatabase{}).Error())
		return
	}
	var prof types.Profile
	if err := json.NewDecoder(r.Body).Decode(&prof); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validator.Struct(&prof); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}
	existing, err := s.db.GetProfile(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if existing == nil {
		notFound := &ErrProfileNotFound{ProfileID: id}
		s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
		return
	}
	if _, err := s.db.SaveProfile(r.Context(), id, "", &prof); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"id": id})
}

func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathUUID(w, r)
	if !ok {
		return
	}
	if s.db == nil {
		s.errorResponse(w, HTTPStatus(&ErrNoDatabase{}), (&ErrNoDatabase{}).Error())
		return
	}
	if err := s.db.DeleteProfile(r.Context(), id); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetFillRun(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathUUID(w, r)
	if !ok {
		return
	}
	if s.db == nil {
		s.errorResponse(w, HTTPStatus(&ErrNoDatabase{}), (&ErrNoDatabase{}).Error())
		return
	}
	run, err := s.db.GetFillRun(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if run == nil {
		notFound := &ErrRunNotFound{RunID: id}
		s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, run)
}

// pathUUID parses the {id} path value, writing a 400 on failure.
func (s *Server) pathUUID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid id: must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

// extractValidationErrors formats validator errors into a readable message.
func extractValidationErrors(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag()))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
