package notice

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/societyos/society-backend/internal/notification"
)

type fakeRepo struct {
	notices map[string]*Notice
	seq     int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{notices: make(map[string]*Notice)}
}

func (r *fakeRepo) Create(ctx context.Context, n *Notice) error {
	r.seq++
	n.ID = fmt.Sprintf("notice-%d", r.seq)
	n.CreatedAt = time.Now()
	n.UpdatedAt = n.CreatedAt
	clone := *n
	r.notices[n.ID] = &clone
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*Notice, error) {
	n, ok := r.notices[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *n
	return &clone, nil
}

func (r *fakeRepo) List(ctx context.Context, filter Filter) ([]*Notice, int, error) {
	var out []*Notice
	for _, n := range r.notices {
		if filter.Category != "" && n.Category != filter.Category {
			continue
		}
		if filter.Keyword != "" &&
			!strings.Contains(strings.ToLower(n.Title), strings.ToLower(filter.Keyword)) &&
			!strings.Contains(strings.ToLower(n.Body), strings.ToLower(filter.Keyword)) {
			continue
		}
		clone := *n
		out = append(out, &clone)
	}
	return out, len(out), nil
}

func (r *fakeRepo) Update(ctx context.Context, n *Notice) error {
	if _, ok := r.notices[n.ID]; !ok {
		return ErrNotFound
	}
	n.UpdatedAt = time.Now()
	clone := *n
	r.notices[n.ID] = &clone
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.notices[id]; !ok {
		return ErrNotFound
	}
	delete(r.notices, id)
	return nil
}

type fakePusher struct {
	topics   []string
	messages []notification.Message
}

func (p *fakePusher) PushToUsers(userIDs []string, msg notification.Message) {}

func (p *fakePusher) PushToTopic(topic string, msg notification.Message) {
	p.topics = append(p.topics, topic)
	p.messages = append(p.messages, msg)
}

func TestCreateNotice(t *testing.T) {
	ctx := context.Background()

	t.Run("Broadcasts To Notices Topic", func(t *testing.T) {
		pusher := &fakePusher{}
		svc := NewService(newFakeRepo(), pusher)

		n, err := svc.Create(ctx, CreateRequest{
			Title:     "Water outage on Saturday",
			Body:      "Tank cleaning from 10:00 to 14:00.",
			Category:  "maintenance",
			CreatedBy: "admin",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, n.ID)
		require.Len(t, pusher.topics, 1)
		assert.Equal(t, notification.TopicNotices, pusher.topics[0])
		assert.Equal(t, n.Title, pusher.messages[0].Title)
	})

	t.Run("Truncates Long Body In Push", func(t *testing.T) {
		pusher := &fakePusher{}
		svc := NewService(newFakeRepo(), pusher)

		_, err := svc.Create(ctx, CreateRequest{
			Title:     "Annual general meeting",
			Body:      strings.Repeat("agenda ", 100),
			Category:  "event",
			CreatedBy: "admin",
		})
		require.NoError(t, err)
		require.Len(t, pusher.messages, 1)
		assert.LessOrEqual(t, len(pusher.messages[0].Body), 160)
		assert.True(t, strings.HasSuffix(pusher.messages[0].Body, "..."))
	})

	t.Run("Truncates Multi Byte Body On Rune Boundary", func(t *testing.T) {
		pusher := &fakePusher{}
		svc := NewService(newFakeRepo(), pusher)

		_, err := svc.Create(ctx, CreateRequest{
			Title:     "दीवाली उत्सव",
			Body:      strings.Repeat("दीपावली की शुभकामनाएं ", 20),
			Category:  "event",
			CreatedBy: "admin",
		})
		require.NoError(t, err)
		require.Len(t, pusher.messages, 1)
		body := pusher.messages[0].Body
		assert.True(t, utf8.ValidString(body))
		assert.LessOrEqual(t, len(body), 160)
		assert.True(t, strings.HasSuffix(body, "..."))
	})

	t.Run("Validation", func(t *testing.T) {
		svc := NewService(newFakeRepo(), &fakePusher{})

		_, err := svc.Create(ctx, CreateRequest{Title: "  ", Category: "general", CreatedBy: "admin"})
		assert.ErrorIs(t, err, ErrTitleRequired)

		_, err = svc.Create(ctx, CreateRequest{Title: "Hi", Category: "gossip", CreatedBy: "admin"})
		assert.ErrorIs(t, err, ErrInvalidCategory)
	})
}

func TestUpdateNotice(t *testing.T) {
	ctx := context.Background()
	pusher := &fakePusher{}
	svc := NewService(newFakeRepo(), pusher)

	n, err := svc.Create(ctx, CreateRequest{
		Title:     "Gym closed",
		Body:      "Maintenance work.",
		Category:  "maintenance",
		CreatedBy: "admin",
	})
	require.NoError(t, err)

	title := "Gym closed until Friday"
	updated, err := svc.Update(ctx, n.ID, UpdateRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, "maintenance", updated.Category)

	// Edits do not rebroadcast.
	assert.Len(t, pusher.topics, 1)

	bad := "gossip"
	_, err = svc.Update(ctx, n.ID, UpdateRequest{Category: &bad})
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestDeleteNotice(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo(), &fakePusher{})

	n, err := svc.Create(ctx, CreateRequest{
		Title:     "Old notice",
		Category:  "general",
		CreatedBy: "admin",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, n.ID))
	assert.ErrorIs(t, svc.Delete(ctx, n.ID), ErrNotFound)

	_, err = svc.GetByID(ctx, n.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
