package actors

import (
	"errors"
	"testing"
	"time"

	stdctx "context"

	"drift-bottle/internal/models"
	"drift-bottle/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// fakeProfileStore keeps profiles in memory, keyed by email. lookupErr, when
// set, is returned from every email lookup to simulate a transport failure.
type fakeProfileStore struct {
	byEmail   map[string]*models.Profile
	lookupErr error
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{byEmail: make(map[string]*models.Profile)}
}

func (f *fakeProfileStore) SaveProfile(_ stdctx.Context, profile *models.Profile) error {
	f.byEmail[profile.Email] = profile
	return nil
}

func (f *fakeProfileStore) GetProfile(_ stdctx.Context, id uuid.UUID) (*models.Profile, error) {
	for _, p := range f.byEmail {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, utils.NewUserNotFoundError(id.String())
}

func (f *fakeProfileStore) GetProfileByEmail(_ stdctx.Context, email string) (*models.Profile, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	if p, ok := f.byEmail[email]; ok {
		return p, nil
	}
	return nil, utils.NewUserNotFoundError(email)
}

func (f *fakeProfileStore) GetAllProfiles(_ stdctx.Context) ([]*models.Profile, error) {
	profiles := make([]*models.Profile, 0, len(f.byEmail))
	for _, p := range f.byEmail {
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func spawnProfileActor(t *testing.T, db ProfileStore) (*actor.ActorSystem, *actor.PID) {
	t.Helper()
	system := actor.NewActorSystem()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewProfileActor(db, utils.NewMetricsCollector())
	})
	return system, system.Root.Spawn(props)
}

func TestProfileActorRegister(t *testing.T) {
	db := newFakeProfileStore()
	system, pid := spawnProfileActor(t, db)

	future := system.Root.RequestFuture(pid, &RegisterProfileMsg{
		DisplayName: "Drifter",
		Email:       "  Drifter@Example.COM ",
		Password:    "hunter22",
	}, 5*time.Second)

	result, err := future.Result()
	require.NoError(t, err)

	profile, ok := result.(*models.Profile)
	require.True(t, ok, "unexpected response type %T", result)
	assert.Equal(t, "Drifter", profile.DisplayName)
	assert.Equal(t, "drifter@example.com", profile.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(profile.HashedPassword), []byte("hunter22")))
}

func TestProfileActorRegisterDuplicateEmail(t *testing.T) {
	db := newFakeProfileStore()
	db.byEmail["taken@example.com"] = &models.Profile{ID: uuid.New(), Email: "taken@example.com"}
	system, pid := spawnProfileActor(t, db)

	future := system.Root.RequestFuture(pid, &RegisterProfileMsg{
		DisplayName: "Drifter",
		Email:       "taken@example.com",
		Password:    "hunter22",
	}, 5*time.Second)

	result, err := future.Result()
	require.NoError(t, err)

	appErr, ok := result.(*utils.AppError)
	require.True(t, ok, "unexpected response type %T", result)
	assert.Equal(t, utils.ErrDuplicate, appErr.Code)
}

func TestProfileActorRegisterLookupFailure(t *testing.T) {
	db := newFakeProfileStore()
	db.lookupErr = errors.New("connection reset")
	system, pid := spawnProfileActor(t, db)

	future := system.Root.RequestFuture(pid, &RegisterProfileMsg{
		DisplayName: "Drifter",
		Email:       "drifter@example.com",
		Password:    "hunter22",
	}, 5*time.Second)

	result, err := future.Result()
	require.NoError(t, err)

	// A failed lookup must not read as "email free" and let the write
	// proceed; only a clean NotFound does.
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok, "unexpected response type %T", result)
	assert.Equal(t, utils.ErrDatabase, appErr.Code)
	assert.Empty(t, db.byEmail)
}

func TestProfileActorLoginInvalidCredentials(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("right-password"), bcrypt.DefaultCost)
	require.NoError(t, err)

	db := newFakeProfileStore()
	db.byEmail["drifter@example.com"] = &models.Profile{
		ID:             uuid.New(),
		Email:          "drifter@example.com",
		HashedPassword: string(hashed),
	}
	system, pid := spawnProfileActor(t, db)

	wrongPassword := system.Root.RequestFuture(pid, &LoginMsg{
		Email:    "drifter@example.com",
		Password: "wrong-password",
	}, 5*time.Second)
	unknownEmail := system.Root.RequestFuture(pid, &LoginMsg{
		Email:    "nobody@example.com",
		Password: "right-password",
	}, 5*time.Second)

	// Both failures read identically; the response never reveals whether
	// the email is registered.
	for _, future := range []*actor.Future{wrongPassword, unknownEmail} {
		result, err := future.Result()
		require.NoError(t, err)

		appErr, ok := result.(*utils.AppError)
		require.True(t, ok, "unexpected response type %T", result)
		assert.Equal(t, utils.ErrInvalidCredentials, appErr.Code)
		assert.Equal(t, "Invalid email or password", appErr.Message)
	}
}
