package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"muniplan/internal/models"
)

// fakeUserRepo covers the lookups the bot handshake needs.
type fakeUserRepo struct {
	users       map[int64]*models.User
	chatLookups int
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[int64]*models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user not found")
	}
	return u, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user not found")
}

func (r *fakeUserRepo) FindByTelegramChat(_ context.Context, chatID int64) (*models.User, error) {
	r.chatLookups++
	for _, u := range r.users {
		if u.TelegramChatID != nil && *u.TelegramChatID == chatID {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user not found")
}

func (r *fakeUserRepo) List(_ context.Context, _, _ int) ([]*models.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) SetTelegramChatID(_ context.Context, userID, chatID int64) error {
	u, ok := r.users[userID]
	if !ok {
		return fmt.Errorf("user not found")
	}
	u.TelegramChatID = &chatID
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id int64) error {
	delete(r.users, id)
	return nil
}

func newTestTelegramService(repo *fakeUserRepo) *TelegramService {
	// no bot client; send becomes a no-op and the handshake logic is
	// exercised directly
	return &TelegramService{users: repo, pending: make(map[string]linkRequest)}
}

func chatUpdate(chatID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			Chat: &tgbotapi.Chat{ID: chatID},
			Text: text,
		},
	}
}

func TestHandleUpdate_LinkHandshake(t *testing.T) {
	repo := newFakeUserRepo(&models.User{ID: 42, Name: "Aliya"})
	svc := newTestTelegramService(repo)

	code := svc.NewLinkCode(42)
	svc.HandleUpdate(context.Background(), chatUpdate(777, "/start "+code))

	u := repo.users[42]
	if u.TelegramChatID == nil || *u.TelegramChatID != 777 {
		t.Fatalf("chat not linked: %+v", u)
	}

	// the code is one-time: replaying it must not relink another chat
	svc.HandleUpdate(context.Background(), chatUpdate(888, "/start "+code))
	if *repo.users[42].TelegramChatID != 777 {
		t.Errorf("replayed code relinked the account: %+v", repo.users[42])
	}
}

func TestHandleUpdate_ExpiredCodeRejected(t *testing.T) {
	repo := newFakeUserRepo(&models.User{ID: 42, Name: "Aliya"})
	svc := newTestTelegramService(repo)

	code := svc.NewLinkCode(42)
	svc.pending[code] = linkRequest{userID: 42, expires: time.Now().Add(-time.Minute)}

	svc.HandleUpdate(context.Background(), chatUpdate(777, "/start "+code))
	if repo.users[42].TelegramChatID != nil {
		t.Errorf("expired code linked a chat: %+v", repo.users[42])
	}
}

func TestHandleUpdate_LinkedChatRecognized(t *testing.T) {
	chat := int64(777)
	repo := newFakeUserRepo(&models.User{ID: 42, Name: "Aliya", TelegramChatID: &chat})
	svc := newTestTelegramService(repo)

	svc.HandleUpdate(context.Background(), chatUpdate(chat, "hello"))
	if repo.chatLookups != 1 {
		t.Errorf("expected the chat to be resolved against the user store, lookups=%d", repo.chatLookups)
	}
}

func TestHandleUpdate_NilReceiverAndEmptyUpdate(t *testing.T) {
	var svc *TelegramService
	svc.HandleUpdate(context.Background(), tgbotapi.Update{})
	svc.HandleUpdate(context.Background(), chatUpdate(1, "/start abc"))
}
