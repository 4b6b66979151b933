package poll

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/societyos/society-backend/internal/notification"
)

type voteKey struct {
	pollID string
	userID string
}

type fakeRepo struct {
	polls   map[string]*Poll
	options map[string]string // option id -> poll id
	votes   map[voteKey]string
	seq     int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		polls:   make(map[string]*Poll),
		options: make(map[string]string),
		votes:   make(map[voteKey]string),
	}
}

func (r *fakeRepo) Create(ctx context.Context, p *Poll, options []string) error {
	r.seq++
	p.ID = fmt.Sprintf("poll-%d", r.seq)
	p.CreatedAt = time.Now()
	p.Options = make([]Option, len(options))
	for i, text := range options {
		r.seq++
		optionID := fmt.Sprintf("option-%d", r.seq)
		p.Options[i] = Option{ID: optionID, Text: text}
		r.options[optionID] = p.ID
	}
	clone := *p
	clone.Options = append([]Option(nil), p.Options...)
	r.polls[p.ID] = &clone
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*Poll, error) {
	p, ok := r.polls[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *p
	clone.Options = append([]Option(nil), p.Options...)
	clone.TotalVotes = 0
	for i := range clone.Options {
		clone.Options[i].Votes = 0
	}
	for key, optionID := range r.votes {
		if key.pollID != id {
			continue
		}
		for i := range clone.Options {
			if clone.Options[i].ID == optionID {
				clone.Options[i].Votes++
				clone.TotalVotes++
			}
		}
	}
	return &clone, nil
}

func (r *fakeRepo) List(ctx context.Context, filter Filter) ([]*Poll, int, error) {
	var out []*Poll
	for id, p := range r.polls {
		if !filter.IncludeClosed && p.IsClosed {
			continue
		}
		clone, _ := r.GetByID(ctx, id)
		out = append(out, clone)
	}
	return out, len(out), nil
}

func (r *fakeRepo) Vote(ctx context.Context, pollID, optionID, userID string) error {
	ownerPoll, ok := r.options[optionID]
	if !ok || ownerPoll != pollID {
		return ErrOptionNotFound
	}
	p := r.polls[pollID]
	if !p.Open(time.Now()) {
		return ErrPollClosed
	}
	key := voteKey{pollID: pollID, userID: userID}
	if _, voted := r.votes[key]; voted {
		return ErrAlreadyVoted
	}
	r.votes[key] = optionID
	return nil
}

func (r *fakeRepo) UserVote(ctx context.Context, pollID, userID string) (string, error) {
	return r.votes[voteKey{pollID: pollID, userID: userID}], nil
}

func (r *fakeRepo) Close(ctx context.Context, id string) (bool, error) {
	p, ok := r.polls[id]
	if !ok || p.IsClosed {
		return false, nil
	}
	p.IsClosed = true
	return true, nil
}

type fakePusher struct {
	topicPushes []string
}

func (p *fakePusher) PushToUsers(userIDs []string, msg notification.Message) {}

func (p *fakePusher) PushToTopic(topic string, msg notification.Message) {
	p.topicPushes = append(p.topicPushes, topic)
}

func TestCreatePoll(t *testing.T) {
	ctx := context.Background()

	t.Run("Requires Question", func(t *testing.T) {
		svc := NewService(newFakeRepo(), &fakePusher{})
		_, err := svc.Create(ctx, CreateRequest{
			Question:  "   ",
			Options:   []string{"Yes", "No"},
			CreatedBy: "admin",
		})
		assert.ErrorIs(t, err, ErrQuestionRequired)
	})

	t.Run("Requires Two Distinct Options", func(t *testing.T) {
		svc := NewService(newFakeRepo(), &fakePusher{})

		_, err := svc.Create(ctx, CreateRequest{
			Question:  "Repaint the lobby?",
			Options:   []string{"Yes"},
			CreatedBy: "admin",
		})
		assert.ErrorIs(t, err, ErrTooFewOptions)

		// Duplicates and blanks collapse.
		_, err = svc.Create(ctx, CreateRequest{
			Question:  "Repaint the lobby?",
			Options:   []string{"Yes", "Yes", "  ", ""},
			CreatedBy: "admin",
		})
		assert.ErrorIs(t, err, ErrTooFewOptions)
	})

	t.Run("Rejects Past Deadline", func(t *testing.T) {
		svc := NewService(newFakeRepo(), &fakePusher{})
		past := time.Now().Add(-time.Hour)
		_, err := svc.Create(ctx, CreateRequest{
			Question:  "Repaint the lobby?",
			Options:   []string{"Yes", "No"},
			ClosesAt:  &past,
			CreatedBy: "admin",
		})
		assert.ErrorIs(t, err, ErrClosesInPast)
	})

	t.Run("Creates And Announces", func(t *testing.T) {
		pusher := &fakePusher{}
		svc := NewService(newFakeRepo(), pusher)

		p, err := svc.Create(ctx, CreateRequest{
			Question:  "Repaint the lobby?",
			Options:   []string{"Yes", "No", "Later"},
			CreatedBy: "admin",
		})
		require.NoError(t, err)
		assert.Len(t, p.Options, 3)
		assert.False(t, p.IsClosed)
		assert.Contains(t, pusher.topicPushes, notification.TopicNotices)
	})
}

func TestVote(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (Service, *Poll) {
		svc := NewService(newFakeRepo(), &fakePusher{})
		p, err := svc.Create(ctx, CreateRequest{
			Question:  "Repaint the lobby?",
			Options:   []string{"Yes", "No"},
			CreatedBy: "admin",
		})
		require.NoError(t, err)
		return svc, p
	}

	t.Run("Counts Votes", func(t *testing.T) {
		svc, p := setup(t)

		result, err := svc.Vote(ctx, p.ID, p.Options[0].ID, "u1")
		require.NoError(t, err)
		assert.Equal(t, 1, result.TotalVotes)
		assert.Equal(t, 1, result.Options[0].Votes)

		result, err = svc.Vote(ctx, p.ID, p.Options[1].ID, "u2")
		require.NoError(t, err)
		assert.Equal(t, 2, result.TotalVotes)
		assert.Equal(t, 1, result.Options[1].Votes)
	})

	t.Run("One Vote Per User", func(t *testing.T) {
		svc, p := setup(t)

		_, err := svc.Vote(ctx, p.ID, p.Options[0].ID, "u1")
		require.NoError(t, err)

		_, err = svc.Vote(ctx, p.ID, p.Options[1].ID, "u1")
		assert.ErrorIs(t, err, ErrAlreadyVoted)

		vote, err := svc.UserVote(ctx, p.ID, "u1")
		require.NoError(t, err)
		assert.Equal(t, p.Options[0].ID, vote)
	})

	t.Run("Option Must Belong To Poll", func(t *testing.T) {
		svc, p := setup(t)

		other, err := svc.Create(ctx, CreateRequest{
			Question:  "Build a new gym?",
			Options:   []string{"Yes", "No"},
			CreatedBy: "admin",
		})
		require.NoError(t, err)

		_, err = svc.Vote(ctx, p.ID, other.Options[0].ID, "u1")
		assert.ErrorIs(t, err, ErrOptionNotFound)
	})

	t.Run("Closed Poll Rejects Votes", func(t *testing.T) {
		svc, p := setup(t)

		_, err := svc.Close(ctx, p.ID)
		require.NoError(t, err)

		_, err = svc.Vote(ctx, p.ID, p.Options[0].ID, "u1")
		assert.ErrorIs(t, err, ErrPollClosed)
	})

	t.Run("Expired Poll Rejects Votes", func(t *testing.T) {
		repo := newFakeRepo()
		svc := NewService(repo, &fakePusher{})

		deadline := time.Now().Add(50 * time.Millisecond)
		p, err := svc.Create(ctx, CreateRequest{
			Question:  "Repaint the lobby?",
			Options:   []string{"Yes", "No"},
			ClosesAt:  &deadline,
			CreatedBy: "admin",
		})
		require.NoError(t, err)

		time.Sleep(100 * time.Millisecond)
		_, err = svc.Vote(ctx, p.ID, p.Options[0].ID, "u1")
		assert.ErrorIs(t, err, ErrPollClosed)
	})
}

func TestClosePoll(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo(), &fakePusher{})

	p, err := svc.Create(ctx, CreateRequest{
		Question:  "Repaint the lobby?",
		Options:   []string{"Yes", "No"},
		CreatedBy: "admin",
	})
	require.NoError(t, err)

	closed, err := svc.Close(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, closed.IsClosed)

	_, err = svc.Close(ctx, p.ID)
	assert.ErrorIs(t, err, ErrAlreadyClosed)

	_, err = svc.Close(ctx, "no-such-poll")
	assert.ErrorIs(t, err, ErrNotFound)
}
