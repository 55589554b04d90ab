package user

import (
	"errors"
	"net/http"
	"strings"

	"github.com/KAsare1/fintrack-server/cmd/models"
	"github.com/KAsare1/fintrack-server/cmd/utils"
	notification "github.com/KAsare1/fintrack-server/service/notifications"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/hlog"
)

type Handler struct {
	store  *Store
	tokens *utils.TokenService
	mailer notification.Mailer
}

func NewHandler(store *Store, tokens *utils.TokenService, mailer notification.Mailer) *Handler {
	return &Handler{store: store, tokens: tokens, mailer: mailer}
}

// RegisterRoutes sets up all user-related routes
func (h *Handler) RegisterRoutes(router *mux.Router, auth mux.MiddlewareFunc) {
	userRouter := router.PathPrefix("/user").Subrouter()

	userRouter.HandleFunc("/signup", h.handleSignup).Methods("POST")
	userRouter.HandleFunc("/signin", h.handleSignin).Methods("POST")
	userRouter.Handle("/me", auth(http.HandlerFunc(h.handleMe))).Methods("GET")
}

type signupRequest struct {
	Email        string  `json:"email" validate:"required,email"`
	Password     string  `json:"password" validate:"required"`
	Name         string  `json:"name" validate:"required,min=1,max=100"`
	ProfileImage *string `json:"profileImage" validate:"required"`
}

type signinRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type signinResponse struct {
	Message string            `json:"message"`
	Token   string            `json:"token"`
	User    models.PublicUser `json:"user"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, r, err)
		return
	}
	req.Email = normalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if err := utils.Validate(req); err != nil {
		utils.WriteError(w, r, err)
		return
	}

	existing, err := h.store.GetByEmail(r.Context(), req.Email)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	if existing != nil {
		utils.WriteError(w, r, utils.Conflict("User already exists"))
		return
	}

	u := &models.User{
		Email:        req.Email,
		Name:         req.Name,
		ProfileImage: *req.ProfileImage,
	}
	if err := u.SetPassword(req.Password); err != nil {
		utils.WriteError(w, r, utils.Internal(err))
		return
	}
	if err := h.store.Create(r.Context(), u); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			utils.WriteError(w, r, utils.Conflict("User already exists"))
			return
		}
		utils.WriteError(w, r, err)
		return
	}

	log := *hlog.FromRequest(r)
	log.Info().Str("user_id", u.ID.String()).Msg("user signed up")

	go func(email, name string) {
		if err := h.mailer.SendWelcome(email, name); err != nil {
			log.Warn().Err(err).Msg("welcome email not sent")
		}
	}(u.Email, u.Name)

	utils.RespondWithJSON(w, http.StatusCreated, map[string]string{"message": "User created successfully"})
}

func (h *Handler) handleSignin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, r, err)
		return
	}
	req.Email = normalizeEmail(req.Email)
	if err := utils.Validate(req); err != nil {
		utils.WriteError(w, r, err)
		return
	}

	u, err := h.store.GetByEmail(r.Context(), req.Email)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	if u == nil || !u.CheckPassword(req.Password) {
		utils.WriteError(w, r, utils.InvalidCredentials())
		return
	}

	token, err := h.tokens.Issue(u.ID)
	if err != nil {
		utils.WriteError(w, r, utils.Internal(err))
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, signinResponse{
		Message: "User signed in successfully",
		Token:   token,
		User:    u.Public(),
	})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}

	u, err := h.store.GetByID(r.Context(), userID)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	if u == nil {
		utils.WriteError(w, r, utils.NotFound("User not found"))
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]models.PublicUser{"user": u.Public()})
}
