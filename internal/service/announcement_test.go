package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kzl/storefront-api/internal/dto"
	"github.com/kzl/storefront-api/internal/model"
)

type mockAnnouncementRepo struct {
	mu            sync.Mutex
	announcements map[string]*model.Announcement
}

func newMockAnnouncementRepo() *mockAnnouncementRepo {
	return &mockAnnouncementRepo{announcements: make(map[string]*model.Announcement)}
}

func (m *mockAnnouncementRepo) Create(_ context.Context, a *model.Announcement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = uuid.NewString()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	a.UpdatedAt = a.CreatedAt
	cp := *a
	m.announcements[a.ID] = &cp
	return nil
}

func (m *mockAnnouncementRepo) List(_ context.Context) ([]model.Announcement, error) {
	return m.ListSince(context.Background(), time.Time{})
}

func (m *mockAnnouncementRepo) ListSince(_ context.Context, since time.Time) ([]model.Announcement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Announcement
	for _, a := range m.announcements {
		if a.CreatedAt.After(since) {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockAnnouncementRepo) Update(_ context.Context, a *model.Announcement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *a
	m.announcements[a.ID] = &cp
	return nil
}

func (m *mockAnnouncementRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.announcements, id)
	return nil
}

func newAnnouncementFixture(t *testing.T) (*AnnouncementService, *mockAnnouncementRepo, string) {
	t.Helper()
	users := newMockUserRepo()
	user := &model.User{Username: "customer", Role: model.RoleUser}
	require.NoError(t, users.Create(context.Background(), user))
	repo := newMockAnnouncementRepo()
	return NewAnnouncementService(repo, users), repo, user.ID
}

func TestAnnouncementService_Create_RequiresContent(t *testing.T) {
	svc, _, _ := newAnnouncementFixture(t)
	_, err := svc.Create(context.Background(), dto.CreateAnnouncementRequest{ImageURL: "/img/x.jpg"})
	assert.ErrorIs(t, err, ErrAnnouncementEmpty)
}

func TestAnnouncementService_UnseenCursor(t *testing.T) {
	svc, _, userID := newAnnouncementFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, dto.CreateAnnouncementRequest{Title: "Weekend sale"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, dto.CreateAnnouncementRequest{Text: "New rice stock has arrived"})
	require.NoError(t, err)

	// Never marked read: everything is unseen.
	resp, err := svc.Unseen(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Count)

	require.NoError(t, svc.MarkRead(ctx, userID))

	resp, err = svc.Unseen(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Count)

	// Sleep keeps the new announcement strictly after the cursor on coarse
	// clocks.
	time.Sleep(5 * time.Millisecond)
	_, err = svc.Create(ctx, dto.CreateAnnouncementRequest{Title: "Closed on Monday"})
	require.NoError(t, err)

	resp, err = svc.Unseen(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "Closed on Monday", resp.Announcements[0].Title)
}

func TestAnnouncementService_Unseen_UnknownUser(t *testing.T) {
	svc, _, _ := newAnnouncementFixture(t)
	_, err := svc.Unseen(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAnnouncementService_Update(t *testing.T) {
	svc, _, _ := newAnnouncementFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, dto.CreateAnnouncementRequest{Title: "Sale", Text: "10% off"})
	require.NoError(t, err)

	text := "20% off"
	updated, err := svc.Update(ctx, created.ID, dto.UpdateAnnouncementRequest{Text: &text})
	require.NoError(t, err)
	assert.Equal(t, "Sale", updated.Title)
	assert.Equal(t, "20% off", updated.Text)

	_, err = svc.Update(ctx, uuid.NewString(), dto.UpdateAnnouncementRequest{Text: &text})
	assert.ErrorIs(t, err, ErrAnnouncementNotFound)
}
