package devserver

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"taskhub/internal/service"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	form := service.RegisterForm{Name: req.Name, Email: req.Email, Password: req.Password}
	if errs := form.Validate(); len(errs) > 0 {
		writeMessage(w, http.StatusBadRequest, errs[0].Message)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	s.mu.Lock()
	if _, exists := s.emails[req.Email]; exists {
		s.mu.Unlock()
		writeMessage(w, http.StatusConflict, "Email already registered")
		return
	}
	user := service.User{ID: uuid.NewString(), Name: req.Name, Email: req.Email}
	s.users[user.ID] = &account{user: user, hash: hash}
	s.emails[user.Email] = user.ID
	s.mu.Unlock()

	if err := s.issueSession(w, user.ID); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to create session")
		return
	}
	s.logger.Info("user registered", "user_id", user.ID, "email", user.Email)
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	// Copy out under the lock; profile updates mutate the account in place.
	s.mu.Lock()
	var user service.User
	var hash []byte
	found := false
	if id, ok := s.emails[req.Email]; ok {
		if acct := s.users[id]; acct != nil {
			user = acct.user
			hash = acct.hash
			found = true
		}
	}
	s.mu.Unlock()

	if !found || bcrypt.CompareHashAndPassword(hash, []byte(req.Password)) != nil {
		writeMessage(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err := s.issueSession(w, user.ID); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to create session")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	clearSession(w)
	writeMessage(w, http.StatusOK, "Logged out")
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request, userID string) {
	s.mu.Lock()
	acct := s.users[userID]
	p := service.Profile{Name: acct.user.Name, Email: acct.user.Email}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request, userID string) {
	var patch service.ProfilePatch
	if !decodeBody(w, r, &patch) {
		return
	}
	form := service.ProfileForm{Name: patch.Name, Email: patch.Email, Password: patch.Password}
	if errs := form.Validate(); len(errs) > 0 {
		writeMessage(w, http.StatusBadRequest, errs[0].Message)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acct := s.users[userID]

	if patch.Email != nil && *patch.Email != acct.user.Email {
		if _, taken := s.emails[*patch.Email]; taken {
			writeMessage(w, http.StatusConflict, "Email already registered")
			return
		}
		delete(s.emails, acct.user.Email)
		s.emails[*patch.Email] = userID
		acct.user.Email = *patch.Email
	}
	if patch.Name != nil {
		acct.user.Name = *patch.Name
	}
	if patch.Password != nil && *patch.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
		if err != nil {
			writeMessage(w, http.StatusInternalServerError, "Failed to update password")
			return
		}
		acct.hash = hash
	}

	writeJSON(w, http.StatusOK, service.Profile{Name: acct.user.Name, Email: acct.user.Email})
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request, userID string) {
	keyword := strings.ToLower(r.URL.Query().Get("keyword"))
	status := r.URL.Query().Get("status")

	s.mu.Lock()
	defer s.mu.Unlock()

	// Filtering happens here, server-side; the client renders the result
	// set verbatim.
	result := make([]service.Task, 0)
	for _, t := range s.tasks[userID] {
		if keyword != "" &&
			!strings.Contains(strings.ToLower(t.Title), keyword) &&
			!strings.Contains(strings.ToLower(t.Description), keyword) {
			continue
		}
		if status != "" && string(t.Status) != status {
			continue
		}
		result = append(result, t)
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request, userID string) {
	var draft service.TaskDraft
	if !decodeBody(w, r, &draft) {
		return
	}
	if draft.Status == "" {
		draft.Status = service.StatusPending
	}
	if draft.Priority == "" {
		draft.Priority = service.DefaultPriority
	}
	form := service.TaskForm{
		Title:       draft.Title,
		Description: draft.Description,
		Status:      draft.Status,
		Priority:    draft.Priority,
		DueDate:     draft.DueDate,
	}
	if errs := form.Validate(); len(errs) > 0 {
		writeMessage(w, http.StatusBadRequest, errs[0].Message)
		return
	}

	task := service.Task{
		ID:          uuid.NewString(),
		Title:       draft.Title,
		Description: draft.Description,
		Status:      draft.Status,
		Priority:    draft.Priority,
		DueDate:     draft.DueDate,
		CreatedAt:   time.Now().UTC(),
	}

	s.mu.Lock()
	s.tasks[userID] = append(s.tasks[userID], task)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request, userID string) {
	id := mux.Vars(r)["id"]
	var patch service.TaskPatch
	if !decodeBody(w, r, &patch) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := s.tasks[userID]
	for i := range tasks {
		if tasks[i].ID != id {
			continue
		}
		updated := tasks[i]
		if patch.Title != nil {
			updated.Title = *patch.Title
		}
		if patch.Description != nil {
			updated.Description = *patch.Description
		}
		if patch.Status != nil {
			updated.Status = *patch.Status
		}
		if patch.Priority != nil {
			updated.Priority = *patch.Priority
		}
		if patch.DueDate != nil {
			updated.DueDate = *patch.DueDate
		}
		form := service.TaskForm{
			Title:       updated.Title,
			Description: updated.Description,
			Status:      updated.Status,
			Priority:    updated.Priority,
			DueDate:     updated.DueDate,
		}
		if errs := form.Validate(); len(errs) > 0 {
			writeMessage(w, http.StatusBadRequest, errs[0].Message)
			return
		}
		tasks[i] = updated
		writeJSON(w, http.StatusOK, updated)
		return
	}
	writeMessage(w, http.StatusNotFound, "Task not found")
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request, userID string) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := s.tasks[userID]
	for i := range tasks {
		if tasks[i].ID == id {
			s.tasks[userID] = append(tasks[:i], tasks[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeMessage(w, http.StatusNotFound, "Task not found")
}

// decodeBody decodes a bounded JSON body, answering 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
