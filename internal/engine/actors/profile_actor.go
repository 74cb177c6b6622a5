package actors

import (
	"log"
	"strings"
	"time"

	stdctx "context"

	"drift-bottle/internal/models"
	"drift-bottle/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Message types for ProfileActor
type (
	RegisterProfileMsg struct {
		DisplayName string
		Email       string
		Password    string
	}

	LoginMsg struct {
		Email    string
		Password string
	}

	GetProfileMsg struct {
		UserID uuid.UUID
	}

	GetAllProfilesMsg struct{}
)

// ProfileStore is the store-facing side of the profile actor. Satisfied by
// *database.MongoDB.
type ProfileStore interface {
	SaveProfile(ctx stdctx.Context, profile *models.Profile) error
	GetProfile(ctx stdctx.Context, id uuid.UUID) (*models.Profile, error)
	GetProfileByEmail(ctx stdctx.Context, email string) (*models.Profile, error)
	GetAllProfiles(ctx stdctx.Context) ([]*models.Profile, error)
}

// ProfileActor manages account registration, login checks, and the
// recipient directory. Display names are fixed at registration.
type ProfileActor struct {
	db      ProfileStore
	metrics *utils.MetricsCollector
}

func NewProfileActor(db ProfileStore, metrics *utils.MetricsCollector) actor.Actor {
	return &ProfileActor{
		db:      db,
		metrics: metrics,
	}
}

func (a *ProfileActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *RegisterProfileMsg:
		a.handleRegister(context, msg)
	case *LoginMsg:
		a.handleLogin(context, msg)
	case *GetProfileMsg:
		a.handleGetProfile(context, msg)
	case *GetAllProfilesMsg:
		a.handleGetAll(context)
	}
}

func (a *ProfileActor) handleRegister(context actor.Context, msg *RegisterProfileMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	email := strings.ToLower(strings.TrimSpace(msg.Email))

	// Check if email is already registered. Only a clean NotFound means the
	// email is free; a lookup failure must not let registration proceed.
	existing, err := a.db.GetProfileByEmail(ctx, email)
	if err != nil && !utils.IsErrorCode(err, utils.ErrUserNotFound) {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to check email", err))
		return
	}
	if existing != nil {
		context.Respond(utils.NewAppError(utils.ErrDuplicate, "Email already registered", nil))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(msg.Password), bcrypt.DefaultCost)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to hash password", err))
		return
	}

	profile := &models.Profile{
		ID:             uuid.New(),
		DisplayName:    strings.TrimSpace(msg.DisplayName),
		Email:          email,
		HashedPassword: string(hashed),
		CreatedAt:      time.Now(),
	}

	if err := a.db.SaveProfile(ctx, profile); err != nil {
		log.Printf("Failed to save profile: %v", err)
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to save profile", err))
		return
	}

	a.metrics.AddOperationLatency("register_profile", time.Since(startTime))
	context.Respond(profile)
}

func (a *ProfileActor) handleLogin(context actor.Context, msg *LoginMsg) {
	ctx := stdctx.Background()

	email := strings.ToLower(strings.TrimSpace(msg.Email))
	profile, err := a.db.GetProfileByEmail(ctx, email)
	if err != nil {
		// Same response as a wrong password; don't leak which emails exist.
		context.Respond(utils.NewAppError(utils.ErrInvalidCredentials, "Invalid email or password", nil))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.HashedPassword), []byte(msg.Password)); err != nil {
		context.Respond(utils.NewAppError(utils.ErrInvalidCredentials, "Invalid email or password", nil))
		return
	}

	context.Respond(profile)
}

func (a *ProfileActor) handleGetProfile(context actor.Context, msg *GetProfileMsg) {
	ctx := stdctx.Background()
	profile, err := a.db.GetProfile(ctx, msg.UserID)
	if err != nil {
		if appErr, ok := err.(*utils.AppError); ok {
			context.Respond(appErr)
			return
		}
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to get profile", err))
		return
	}
	context.Respond(profile)
}

func (a *ProfileActor) handleGetAll(context actor.Context) {
	ctx := stdctx.Background()
	profiles, err := a.db.GetAllProfiles(ctx)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to get profiles", err))
		return
	}
	if profiles == nil {
		profiles = []*models.Profile{}
	}
	context.Respond(profiles)
}
