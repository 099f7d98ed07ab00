package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"regexp"

	"github.com/sangeeta2003/BillBuddy/database"
	"github.com/sangeeta2003/BillBuddy/jwt"
)

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type usersResponse struct {
	Users []userResponse `json:"users"`
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

var emailRegex = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+\\/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$")

// isEmailValid checks if the email provided passes the required structure and length.
func isEmailValid(e string) bool {
	if len(e) < 3 || len(e) > 254 {
		return false
	}
	return emailRegex.MatchString(e)
}

// signup is the user registration endpoint. Some validation is done, then
// the user is added to the database and a session cookie is set. A 409
// (conflict) is returned if the user already exists.
func (api *API) signup(w http.ResponseWriter, r *http.Request) {
	dbh := api.db.Connect()
	defer dbh.Close()

	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation", "unable to decode and parse json")
		return
	}

	if len(req.Name) < 3 {
		writeError(w, http.StatusBadRequest, "validation", "name must be at least 3 characters")
		return
	}
	if !isEmailValid(req.Email) {
		writeError(w, http.StatusBadRequest, "validation", "invalid email address")
		return
	}
	if len(req.Password) < 6 {
		writeError(w, http.StatusBadRequest, "validation", "password must be at least 6 characters")
		return
	}

	slog.Info("Adding user", "email", req.Email)

	user, err := dbh.CreateUser(req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			writeError(w, http.StatusConflict, "conflict", "a user with that email already exists")
			return
		}
		respondError(w, err)
		return
	}

	cookie := jwt.CreateCookie(user.ID, jwtCookieName)
	http.SetCookie(w, &cookie)
	writeJSON(w, http.StatusCreated, userResponse{ID: user.ID, Name: user.Name, Email: user.Email})
}

// signin handles user authentication with POST requests to the signin
// endpoint. If the user authenticates successfully, a JWT token is set in
// a cookie.
func (api *API) signin(w http.ResponseWriter, r *http.Request) {
	dbh := api.db.Connect()
	defer dbh.Close()

	var req signinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation", "unable to decode and parse json")
		return
	}

	user, err := dbh.AuthenticateUser(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) || errors.Is(err, database.ErrPasswordMismatch) {
			slog.Info("Authentication failed", "email", req.Email)
			writeError(w, http.StatusUnauthorized, "unauthorized", "authorization failed")
			return
		}
		respondError(w, err)
		return
	}

	cookie := jwt.CreateCookie(user.ID, jwtCookieName)
	http.SetCookie(w, &cookie)
	writeJSON(w, http.StatusOK, userResponse{ID: user.ID, Name: user.Name, Email: user.Email})
}

// getUsers returns all users in the database
func (api *API) getUsers(w http.ResponseWriter, r *http.Request, userID string) {
	dbh := api.db.Connect()
	defer dbh.Close()

	dbUsers, err := dbh.GetUsers()
	if err != nil {
		respondError(w, err)
		return
	}

	users := usersResponse{Users: make([]userResponse, len(dbUsers))}
	for i, u := range dbUsers {
		users.Users[i] = userResponse{ID: u.ID, Name: u.Name, Email: u.Email}
	}

	writeJSON(w, http.StatusOK, users)
}
