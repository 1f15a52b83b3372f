package profileService

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/rohan/teamhub/internal/database"
	"github.com/rohan/teamhub/internal/logger"
	"github.com/rohan/teamhub/internal/validator"
)

// ProfileService is the durable user-profile CRUD sub-resource. Profiles
// live in MySQL; team membership state lives in the in-memory store and is
// managed by the team service only.
type ProfileService struct {
	DB  *sql.DB
	Log *logger.Logger
}

// NewProfileService initializes a new profile service.
func NewProfileService(db *sql.DB) *ProfileService {
	return &ProfileService{
		DB:  db,
		Log: logger.NewLogger("profile-service"),
	}
}

type profileRequest struct {
	Name     string  `json:"name" validate:"required"`
	Username string  `json:"username" validate:"required"`
	Email    string  `json:"email" validate:"required,email"`
	Phone    *string `json:"phone"`
}

// CreateUser inserts a new user profile.
func (ps *ProfileService) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := validator.Validate(req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := uuid.NewString()
	query := `INSERT INTO users (user_id, name, username, email, phone, created_at) VALUES (?, ?, ?, ?, ?, ?)`
	if err := exec(ps.DB, query, id, req.Name, req.Username, req.Email, req.Phone, time.Now().UTC().Unix()); err != nil {
		ps.Log.Error("Failed to create user", "error", err)
		respondWithError(w, http.StatusBadRequest, "Error creating user")
		return
	}

	ps.Log.Info("User created", "user_id", id)
	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"id":       id,
		"name":     req.Name,
		"username": req.Username,
		"email":    req.Email,
		"phone":    req.Phone,
	})
}

// GetUsers lists all user profiles.
func (ps *ProfileService) GetUsers(w http.ResponseWriter, r *http.Request) {
	rows, err := database.QueryRowsMap(ps.DB, `SELECT user_id, name, username, email, phone FROM users ORDER BY created_at ASC`)
	if err != nil {
		ps.Log.Error("Failed to list users", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to get users")
		return
	}
	if rows == nil {
		rows = []map[string]interface{}{}
	}

	respondWithJSON(w, http.StatusOK, rows)
}

// GetUser returns one user profile by ID.
func (ps *ProfileService) GetUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	row, err := database.QueryRowMap(ps.DB, `SELECT user_id, name, username, email, phone FROM users WHERE user_id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		ps.Log.Error("Failed to query user", "error", err, "user_id", id)
		respondWithError(w, http.StatusInternalServerError, "Failed to get user")
		return
	}

	respondWithJSON(w, http.StatusOK, row)
}

// UpdateUser patches a user profile.
func (ps *ProfileService) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := validator.Validate(req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	query := `UPDATE users SET name = ?, username = ?, email = ?, phone = ? WHERE user_id = ?`
	result, err := ps.DB.Exec(query, req.Name, req.Username, req.Email, req.Phone, id)
	if err != nil {
		ps.Log.Error("Failed to update user", "error", err, "user_id", id)
		respondWithError(w, http.StatusBadRequest, "Failed to update user")
		return
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		respondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	ps.Log.Info("User updated", "user_id", id)
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "User updated"})
}

// DeleteUser removes a user profile.
func (ps *ProfileService) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	result, err := ps.DB.Exec(`DELETE FROM users WHERE user_id = ?`, id)
	if err != nil {
		ps.Log.Error("Failed to delete user", "error", err, "user_id", id)
		respondWithError(w, http.StatusBadRequest, "Failed to delete user")
		return
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		respondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	ps.Log.Info("User deleted", "user_id", id)
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "User deleted"})
}

func exec(db *sql.DB, query string, args ...interface{}) error {
	_, err := db.Exec(query, args...)
	return err
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
