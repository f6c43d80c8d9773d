package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"happy-thoughts-backend/internal/models"
	"happy-thoughts-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCanModify(t *testing.T) {
	tests := []struct {
		name      string
		owner     string
		requester string
		want      bool
	}{
		{"owner", "u-1", "u-1", true},
		{"someone else", "u-1", "u-2", false},
		{"anonymous thought", "", "u-1", false},
		{"anonymous requester", "u-1", "", false},
		{"both empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanModify(&models.Thought{UserID: tt.owner}, tt.requester))
		})
	}
}

func TestValidateMessage(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"minimum", "Hello", "Hello", false},
		{"trimmed", "  Hello  ", "Hello", false},
		{"too short", "Hey", "", true},
		{"blank", "     ", "", true},
		{"maximum", strings.Repeat("a", 140), strings.Repeat("a", 140), false},
		{"too long", strings.Repeat("a", 141), "", true},
		{"runes not bytes", strings.Repeat("é", 140), strings.Repeat("é", 140), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateMessage(tt.in)
			if tt.wantErr {
				var vErr *ValidationError
				assert.ErrorAs(t, err, &vErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestThoughtService_Create(t *testing.T) {
	repo := new(MockThoughtRepository)
	pub := new(MockPublisher)
	svc := NewThoughtService(repo, pub)
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	repo.On("Create", mock.Anything, mock.MatchedBy(func(th *models.Thought) bool {
		return th.Message == "Hello" && th.Hearts == 0 && th.UserID == "u-1" && th.CreatedAt.Equal(now)
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Thought).ID = "t-1"
	}).Return(nil)
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(e FeedEvent) bool {
		return e.Type == EventThoughtCreated
	})).Return(nil)

	thought, err := svc.Create(context.Background(), "Hello", "u-1")
	require.NoError(t, err)
	assert.Equal(t, "t-1", thought.ID)
	repo.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestThoughtService_CreateInvalid(t *testing.T) {
	repo := new(MockThoughtRepository)
	svc := NewThoughtService(repo, nil)

	_, err := svc.Create(context.Background(), "hi", "u-1")
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestThoughtService_Update(t *testing.T) {
	owned := &models.Thought{ID: "t-1", Message: "old message", UserID: "u-1"}

	tests := []struct {
		name      string
		id        string
		message   string
		requester string
		setup     func(*MockThoughtRepository)
		wantErr   error
	}{
		{
			name:      "owner",
			id:        "t-1",
			message:   "new message",
			requester: "u-1",
			setup: func(r *MockThoughtRepository) {
				r.On("GetByID", mock.Anything, "t-1").Return(owned, nil)
				r.On("UpdateMessage", mock.Anything, "t-1", "new message").
					Return(&models.Thought{ID: "t-1", Message: "new message", UserID: "u-1"}, nil)
			},
		},
		{
			name:      "not owner",
			id:        "t-1",
			message:   "new message",
			requester: "u-2",
			setup: func(r *MockThoughtRepository) {
				r.On("GetByID", mock.Anything, "t-1").Return(owned, nil)
			},
			wantErr: ErrForbidden,
		},
		{
			name:      "missing",
			id:        "t-9",
			message:   "new message",
			requester: "u-1",
			setup: func(r *MockThoughtRepository) {
				r.On("GetByID", mock.Anything, "t-9").Return(nil, repository.ErrNotFound)
			},
			wantErr: repository.ErrNotFound,
		},
		{
			name:      "malformed id",
			id:        "%%%",
			message:   "new message",
			requester: "u-1",
			setup: func(r *MockThoughtRepository) {
				r.On("GetByID", mock.Anything, "%%%").Return(nil, repository.ErrInvalidID)
			},
			wantErr: repository.ErrInvalidID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockThoughtRepository)
			tt.setup(repo)
			svc := NewThoughtService(repo, nil)

			thought, err := svc.Update(context.Background(), tt.id, tt.message, tt.requester)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				repo.AssertNotCalled(t, "UpdateMessage", mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.message, thought.Message)
			repo.AssertExpectations(t)
		})
	}
}

func TestThoughtService_UpdateInvalidMessage(t *testing.T) {
	repo := new(MockThoughtRepository)
	repo.On("GetByID", mock.Anything, "t-1").Return(&models.Thought{ID: "t-1", UserID: "u-1"}, nil)
	svc := NewThoughtService(repo, nil)

	_, err := svc.Update(context.Background(), "t-1", "no", "u-1")
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
	repo.AssertNotCalled(t, "UpdateMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestThoughtService_Delete(t *testing.T) {
	repo := new(MockThoughtRepository)
	pub := new(MockPublisher)
	repo.On("GetByID", mock.Anything, "t-1").Return(&models.Thought{ID: "t-1", UserID: "u-1"}, nil)
	repo.On("Delete", mock.Anything, "t-1").Return(nil)
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(e FeedEvent) bool {
		return e.Type == EventThoughtDeleted
	})).Return(nil)
	svc := NewThoughtService(repo, pub)

	assert.ErrorIs(t, svc.Delete(context.Background(), "t-1", "u-2"), ErrForbidden)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)

	assert.NoError(t, svc.Delete(context.Background(), "t-1", "u-1"))
	repo.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestThoughtService_ConcurrentLikes(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryStore().Thoughts()
	svc := NewThoughtService(repo, NewFeedHub())

	thought, err := svc.Create(ctx, "like this one", "")
	require.NoError(t, err)

	const n = 40
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.Like(ctx, thought.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := svc.Get(ctx, thought.ID)
	require.NoError(t, err)
	assert.Equal(t, n, got.Hearts)
}

func TestThoughtService_PublishFailureDoesNotFailWrite(t *testing.T) {
	repo := new(MockThoughtRepository)
	pub := new(MockPublisher)
	repo.On("IncrementHearts", mock.Anything, "t-1").Return(&models.Thought{ID: "t-1", Hearts: 3}, nil)
	pub.On("Publish", mock.Anything, mock.Anything).Return(assert.AnError)
	svc := NewThoughtService(repo, pub)

	thought, err := svc.Like(context.Background(), "t-1")
	require.NoError(t, err)
	assert.Equal(t, 3, thought.Hearts)
}
