package core_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/riquemorozine/containers-api/internal/authz"
	"github.com/riquemorozine/containers-api/internal/core"
	"github.com/riquemorozine/containers-api/internal/db"
	"github.com/riquemorozine/containers-api/internal/models"
)

type containerFixture struct {
	store  *memStore
	audit  *recordingAudit
	events *recordingEvents
	svc    core.ContainerService
}

func newContainerFixture() *containerFixture {
	store := newMemStore()
	audit := &recordingAudit{}
	events := &recordingEvents{}
	svc := core.NewContainerService(
		store,
		memContainers{s: store},
		memUsers{s: store},
		memFolders{s: store},
		audit,
		events,
		zap.NewNop(),
	)
	return &containerFixture{store: store, audit: audit, events: events, svc: svc}
}

func requireDenial(t *testing.T, err error, reason authz.DenialReason) {
	t.Helper()
	require.Error(t, err)
	got, ok := authz.DenialOf(err)
	require.True(t, ok, "expected an access denial, got %v", err)
	assert.Equal(t, reason, got)
}

func rolePtr(r authz.Role) *authz.Role { return &r }

func TestCreateContainer(t *testing.T) {
	f := newContainerFixture()
	ctx := context.Background()

	container, err := f.svc.Create(ctx, "u1", models.CreateContainerRequest{Name: "workspace"})
	require.NoError(t, err)
	assert.NotEmpty(t, container.ID)
	assert.Equal(t, "u1", container.OwnerID)
	assert.Empty(t, container.Members)
	assert.False(t, container.Public)

	assert.Contains(t, f.audit.actions(), "CONTAINER_CREATE")
	assert.Contains(t, f.events.names(), models.EventContainerCreated)
}

func TestListForUser(t *testing.T) {
	f := newContainerFixture()
	ctx := context.Background()
	f.store.addUser("u1")
	f.store.addUser("u2")

	owned, err := f.svc.Create(ctx, "u1", models.CreateContainerRequest{Name: "mine"})
	require.NoError(t, err)
	shared, err := f.svc.Create(ctx, "u2", models.CreateContainerRequest{Name: "theirs"})
	require.NoError(t, err)
	require.NoError(t, f.svc.AddUser(ctx, shared.ID, "u1", nil))
	_, err = f.svc.Create(ctx, "u2", models.CreateContainerRequest{Name: "unrelated"})
	require.NoError(t, err)

	containers, err := f.svc.ListForUser(ctx, "u1")
	require.NoError(t, err)
	ids := make([]string, 0, len(containers))
	for _, c := range containers {
		ids = append(ids, c.ID)
	}
	assert.ElementsMatch(t, []string{owned.ID, shared.ID}, ids)
}

func TestListForUserUnknownRequester(t *testing.T) {
	f := newContainerFixture()

	_, err := f.svc.ListForUser(context.Background(), "ghost")
	requireDenial(t, err, authz.ReasonUserNotFound)
}

func TestAddUser(t *testing.T) {
	f := newContainerFixture()
	ctx := context.Background()
	f.store.addUser("u2")
	container, err := f.svc.Create(ctx, "u1", models.CreateContainerRequest{Name: "ws"})
	require.NoError(t, err)

	require.NoError(t, f.svc.AddUser(ctx, container.ID, "u2", nil))

	stored := f.store.containers[container.ID]
	role, ok := stored.Members["u2"]
	require.True(t, ok)
	assert.Equal(t, authz.DefaultRole, role)
	assert.Len(t, stored.Members, 1)

	assert.Contains(t, f.audit.actions(), "MEMBER_ADD")
	assert.Contains(t, f.events.names(), models.EventMemberAdded)
}

func TestAddUserExplicitRole(t *testing.T) {
	f := newContainerFixture()
	ctx := context.Background()
	f.store.addUser("u2")
	container, err := f.svc.Create(ctx, "u1", models.CreateContainerRequest{Name: "ws"})
	require.NoError(t, err)

	require.NoError(t, f.svc.AddUser(ctx, container.ID, "u2", rolePtr(authz.RoleAdmin)))
	assert.Equal(t, authz.RoleAdmin, f.store.containers[container.ID].Members["u2"])
}

func TestAddUserDenials(t *testing.T) {
	f := newContainerFixture()
	ctx := context.Background()
	f.store.addUser("u2")
	container, err := f.svc.Create(ctx, "u1", models.CreateContainerRequest{Name: "ws"})
	require.NoError(t, err)

	requireDenial(t, f.svc.AddUser(ctx, container.ID, "ghost", nil), authz.ReasonUserNotFound)
	requireDenial(t, f.svc.AddUser(ctx, "missing", "u2", nil), authz.ReasonContainerNotFound)

	require.NoError(t, f.svc.AddUser(ctx, container.ID, "u2", nil))
	requireDenial(t, f.svc.AddUser(ctx, container.ID, "u2", nil), authz.ReasonAlreadyMember)
	assert.Len(t, f.store.containers[container.ID].Members, 1)
}

func TestAddUserConcurrent(t *testing.T) {
	f := newContainerFixture()
	ctx := context.Background()
	f.store.addUser("u2")
	container, err := f.svc.Create(ctx, "u1", models.CreateContainerRequest{Name: "ws"})
	require.NoError(t, err)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = f.svc.AddUser(ctx, container.ID, "u2", nil)
		}(i)
	}
	wg.Wait()

	var successes, duplicates int
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		reason, ok := authz.DenialOf(err)
		require.True(t, ok, "unexpected error: %v", err)
		assert.Equal(t, authz.ReasonAlreadyMember, reason)
		duplicates++
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, duplicates)
	assert.Len(t, f.store.containers[container.ID].Members, 1)
}

func TestUpdateUserRole(t *testing.T) {
	f := newContainerFixture()
	ctx := context.Background()
	f.store.addUser("u2")
	f.store.addUser("u3")
	container, err := f.svc.Create(ctx, "u1", models.CreateContainerRequest{Name: "ws"})
	require.NoError(t, err)
	require.NoError(t, f.svc.AddUser(ctx, container.ID, "u2", nil))
	require.NoError(t, f.svc.AddUser(ctx, container.ID, "u3", rolePtr(authz.RoleModerator)))

	require.NoError(t, f.svc.UpdateUserRole(ctx, container.ID, "u2", authz.RoleAdmin))

	stored := f.store.containers[container.ID]
	assert.Equal(t, authz.RoleAdmin, stored.Members["u2"])
	// Other members' roles are untouched.
	assert.Equal(t, authz.RoleModerator, stored.Members["u3"])
	assert.Equal(t, "u1", stored.OwnerID)

	assert.Contains(t, f.events.names(), models.EventMemberRoleUpdated)
}

func TestUpdateUserRoleDenials(t *testing.T) {
	f := newContainerFixture()
	ctx := context.Background()
	container, err := f.svc.Create(ctx, "u1", models.CreateContainerRequest{Name: "ws"})
	require.NoError(t, err)

	requireDenial(t, f.svc.UpdateUserRole(ctx, "missing", "u2", authz.RoleAdmin), authz.ReasonContainerNotFound)
	requireDenial(t, f.svc.UpdateUserRole(ctx, container.ID, "u2", authz.RoleAdmin), authz.ReasonNotAMember)
}

func TestDeleteContainer(t *testing.T) {
	f := newContainerFixture()
	ctx := context.Background()
	f.store.addUser("u2")
	container, err := f.svc.Create(ctx, "u1", models.CreateContainerRequest{Name: "ws"})
	require.NoError(t, err)
	require.NoError(t, f.svc.AddUser(ctx, container.ID, "u2", rolePtr(authz.RoleAdmin)))

	// An Admin member is still not the owner.
	requireDenial(t, f.svc.Delete(ctx, container.ID, "u2"), authz.ReasonNotOwner)
	requireDenial(t, f.svc.Delete(ctx, container.ID, "stranger"), authz.ReasonNotOwner)

	require.NoError(t, f.svc.Delete(ctx, container.ID, "u1"))
	assert.NotContains(t, f.store.containers, container.ID)

	requireDenial(t, f.svc.Delete(ctx, container.ID, "u1"), authz.ReasonContainerNotFound)
}

func TestDeleteContainerCascadesFolders(t *testing.T) {
	f := newContainerFixture()
	ctx := context.Background()
	container, err := f.svc.Create(ctx, "u1", models.CreateContainerRequest{Name: "ws"})
	require.NoError(t, err)
	other, err := f.svc.Create(ctx, "u1", models.CreateContainerRequest{Name: "other"})
	require.NoError(t, err)

	folders := memFolders{s: f.store}
	require.NoError(t, f.store.RunTransaction(ctx, func(ctx context.Context, uow db.UnitOfWork) error {
		require.NoError(t, folders.Create(ctx, uow, &models.Folder{ContainerID: container.ID, AuthorID: "u1", Name: "a"}))
		require.NoError(t, folders.Create(ctx, uow, &models.Folder{ContainerID: container.ID, AuthorID: "u1", Name: "b"}))
		require.NoError(t, folders.Create(ctx, uow, &models.Folder{ContainerID: other.ID, AuthorID: "u1", Name: "keep"}))
		return nil
	}))

	require.NoError(t, f.svc.Delete(ctx, container.ID, "u1"))

	remaining := make([]string, 0, len(f.store.folders))
	for _, folder := range f.store.folders {
		remaining = append(remaining, folder.Name)
	}
	assert.Equal(t, []string{"keep"}, remaining)
}

func TestGetByID(t *testing.T) {
	f := newContainerFixture()
	ctx := context.Background()
	f.store.addUser("u2")
	private, err := f.svc.Create(ctx, "u1", models.CreateContainerRequest{Name: "private"})
	require.NoError(t, err)
	require.NoError(t, f.svc.AddUser(ctx, private.ID, "u2", nil))
	public, err := f.svc.Create(ctx, "u1", models.CreateContainerRequest{Name: "open", Public: true})
	require.NoError(t, err)

	got, err := f.svc.GetByID(ctx, private.ID, "u2")
	require.NoError(t, err)
	assert.Equal(t, private.ID, got.ID)
	assert.Contains(t, got.Members, "u2")

	requireDenial(t, errOf(f.svc.GetByID(ctx, private.ID, "stranger")), authz.ReasonNoViewPermission)

	// The owner of a private container is not implicitly a member.
	requireDenial(t, errOf(f.svc.GetByID(ctx, private.ID, "u1")), authz.ReasonNoViewPermission)

	_, err = f.svc.GetByID(ctx, public.ID, "stranger")
	assert.NoError(t, err)

	requireDenial(t, errOf(f.svc.GetByID(ctx, "missing", "u1")), authz.ReasonContainerNotFound)
}

// errOf discards the value of a two-return call for denial assertions.
func errOf(_ *models.Container, err error) error { return err }

// TestMembershipScenario walks the end-to-end flow: U1 owns a private
// container, U2 is added as Moderator and can view it, U3 cannot, and only
// U1 can delete it.
func TestMembershipScenario(t *testing.T) {
	f := newContainerFixture()
	ctx := context.Background()
	f.store.addUser("u1")
	f.store.addUser("u2")
	f.store.addUser("u3")

	c1, err := f.svc.Create(ctx, "u1", models.CreateContainerRequest{Name: "c1"})
	require.NoError(t, err)

	require.NoError(t, f.svc.AddUser(ctx, c1.ID, "u2", rolePtr(authz.RoleModerator)))
	assert.Equal(t, authz.RoleModerator, f.store.containers[c1.ID].Members["u2"])

	got, err := f.svc.GetByID(ctx, c1.ID, "u2")
	require.NoError(t, err)
	assert.Equal(t, c1.ID, got.ID)

	requireDenial(t, errOf(f.svc.GetByID(ctx, c1.ID, "u3")), authz.ReasonNoViewPermission)
	requireDenial(t, f.svc.Delete(ctx, c1.ID, "u2"), authz.ReasonNotOwner)

	require.NoError(t, f.svc.Delete(ctx, c1.ID, "u1"))
	assert.NotContains(t, f.store.containers, c1.ID)
}
