package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/oenomel87/agora/chat"
	"github.com/oenomel87/agora/entity"
	"github.com/oenomel87/agora/errors"
)

type (
	threadDetail struct {
		entity.Thread
		Messages []entity.Message `json:"messages"`
	}

	threadList struct {
		Threads []entity.Thread `json:"threads"`
	}

	generateTitleRequest struct {
		Messages []chat.Message `json:"messages"`
	}
)

func (s *Server) ping(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"ping": "pong"})
}

func (s *Server) createThread(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, errors.Wrapf(errors.ErrInvalidParams, "invalid body: %v", err))
			return
		}
	}

	thread, err := s.threads.CreateThread(r.Context(), req.Title)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, thread)
}

func (s *Server) listThreads(w http.ResponseWriter, r *http.Request) {
	threads, err := s.threads.GetThreads(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if threads == nil {
		threads = []entity.Thread{}
	}

	s.writeJSON(w, http.StatusOK, threadList{Threads: threads})
}

func (s *Server) getThread(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	thread, err := s.threads.GetThreadByID(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	messages := thread.Messages
	if messages == nil {
		messages = []entity.Message{}
	}

	s.writeJSON(w, http.StatusOK, threadDetail{
		Thread:   *thread,
		Messages: messages,
	})
}

func (s *Server) deleteThread(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	deleted, err := s.threads.DeleteThread(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !deleted {
		s.writeError(w, errors.Wrapf(errors.ErrNotFound, "thread %q not found", id))
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *Server) generateTitle(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req generateTitleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrapf(errors.ErrInvalidParams, "invalid body: %v", err))
		return
	}

	thread, err := s.chat.GenerateTitle(r.Context(), id, req.Messages)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, thread)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chat.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrapf(errors.ErrInvalidParams, "invalid body: %v", err))
		return
	}

	resp, err := s.chat.Chat(r.Context(), &req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, resp)
}
