package core_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/riquemorozine/containers-api/internal/authz"
	"github.com/riquemorozine/containers-api/internal/db"
	"github.com/riquemorozine/containers-api/internal/models"
)

// memStore is an in-memory store whose RunTransaction serializes units of
// work behind one lock, matching the isolation contract the services expect
// from the Firestore runner.
type memStore struct {
	mu         sync.Mutex
	users      map[string]*models.User
	containers map[string]*models.Container
	folders    map[string]*models.Folder
	nextID     int
}

type memUOW struct{}

func newMemStore() *memStore {
	return &memStore{
		users:      make(map[string]*models.User),
		containers: make(map[string]*models.Container),
		folders:    make(map[string]*models.Folder),
	}
}

func (s *memStore) RunTransaction(ctx context.Context, fn func(ctx context.Context, uow db.UnitOfWork) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(ctx, memUOW{})
}

func (s *memStore) genID(prefix string) string {
	s.nextID++
	return fmt.Sprintf("%s-%d", prefix, s.nextID)
}

func (s *memStore) addUser(id string) {
	s.users[id] = &models.User{ID: id, Email: id + "@example.com"}
}

func copyContainer(c *models.Container) *models.Container {
	clone := *c
	clone.Members = make(map[string]authz.Role, len(c.Members))
	for userID, role := range c.Members {
		clone.Members[userID] = role
	}
	return &clone
}

// memUsers implements db.UserRepository over memStore.
type memUsers struct{ s *memStore }

func (r memUsers) FindByID(ctx context.Context, uow db.UnitOfWork, userID string) (*models.User, error) {
	user, ok := r.s.users[userID]
	if !ok {
		return nil, fmt.Errorf("user %q: %w", userID, db.ErrNotFound)
	}
	return user, nil
}

func (r memUsers) GetByID(ctx context.Context, userID string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.FindByID(ctx, memUOW{}, userID)
}

func (r memUsers) Upsert(ctx context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users[user.ID] = user
	return nil
}

// memContainers implements db.ContainerRepository over memStore.
type memContainers struct{ s *memStore }

func (r memContainers) Create(ctx context.Context, uow db.UnitOfWork, container *models.Container) error {
	container.ID = r.s.genID("container")
	r.s.containers[container.ID] = copyContainer(container)
	return nil
}

func (r memContainers) FindByID(ctx context.Context, uow db.UnitOfWork, containerID string) (*models.Container, error) {
	container, ok := r.s.containers[containerID]
	if !ok {
		return nil, fmt.Errorf("container %q: %w", containerID, db.ErrNotFound)
	}
	return copyContainer(container), nil
}

func (r memContainers) ListForUser(ctx context.Context, uow db.UnitOfWork, userID string) ([]*models.Container, error) {
	var out []*models.Container
	for _, container := range r.s.containers {
		if container.OwnerID == userID {
			out = append(out, copyContainer(container))
			continue
		}
		if _, ok := container.Members[userID]; ok {
			out = append(out, copyContainer(container))
		}
	}
	return out, nil
}

func (r memContainers) AddMember(ctx context.Context, uow db.UnitOfWork, containerID, userID string, role authz.Role) error {
	container, ok := r.s.containers[containerID]
	if !ok {
		return fmt.Errorf("container %q: %w", containerID, db.ErrNotFound)
	}
	container.Members[userID] = role
	return nil
}

func (r memContainers) UpdateMemberRole(ctx context.Context, uow db.UnitOfWork, containerID, userID string, role authz.Role) error {
	container, ok := r.s.containers[containerID]
	if !ok {
		return fmt.Errorf("container %q: %w", containerID, db.ErrNotFound)
	}
	container.Members[userID] = role
	return nil
}

func (r memContainers) Delete(ctx context.Context, uow db.UnitOfWork, containerID string) error {
	delete(r.s.containers, containerID)
	return nil
}

// memFolders implements db.FolderRepository over memStore.
type memFolders struct{ s *memStore }

func (r memFolders) Create(ctx context.Context, uow db.UnitOfWork, folder *models.Folder) error {
	folder.ID = r.s.genID("folder")
	clone := *folder
	r.s.folders[folder.ID] = &clone
	return nil
}

func (r memFolders) ListByContainer(ctx context.Context, uow db.UnitOfWork, containerID string) ([]*models.Folder, error) {
	var out []*models.Folder
	for _, folder := range r.s.folders {
		if folder.ContainerID == containerID {
			clone := *folder
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r memFolders) DeleteByContainer(ctx context.Context, uow db.UnitOfWork, containerID string) error {
	for id, folder := range r.s.folders {
		if folder.ContainerID == containerID {
			delete(r.s.folders, id)
		}
	}
	return nil
}

// recordingAudit captures audit entries for assertions.
type recordingAudit struct {
	mu      sync.Mutex
	entries []models.AuditLog
}

func (a *recordingAudit) Record(ctx context.Context, entry models.AuditLog) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entry)
	return nil
}

func (a *recordingAudit) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.entries))
	for _, e := range a.entries {
		out = append(out, e.Action)
	}
	return out
}

// recordingEvents captures published domain events for assertions.
type recordingEvents struct {
	mu     sync.Mutex
	events []models.DomainEvent
}

func (p *recordingEvents) Publish(ctx context.Context, event models.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingEvents) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Name)
	}
	return out
}
