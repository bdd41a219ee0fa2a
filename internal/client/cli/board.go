package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/okulov/chatter/internal/client/storage"
)

// The board commands keep per-device data: posts, contacts, favorites and
// message history live only in the local state directory, like the original
// frontend kept them in browser storage.

func (a *App) currentUsername() string {
	if snap := a.reconciler.Current(); snap.User != nil {
		return snap.User.Username
	}
	return ""
}

// AddPost appends a post to the local board.
func (a *App) AddPost(ctx context.Context, body string) error {
	var board storage.PostBoard
	if _, err := a.store.Get(ctx, storage.KeyPosts, &board); err != nil {
		printlnFn("Reading posts failed:", err.Error())
		return err
	}

	post := storage.Post{
		ID:        strconv.FormatInt(time.Now().UnixMilli(), 10),
		Author:    a.currentUsername(),
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	board.Version = storage.SchemaVersion
	board.Posts = append(board.Posts, post)

	if err := a.store.Put(ctx, storage.KeyPosts, board); err != nil {
		printlnFn("Saving post failed:", err.Error())
		return err
	}
	printlnFn("Posted", post.ID)
	return nil
}

// ListPosts prints the local board, oldest first.
func (a *App) ListPosts(ctx context.Context) error {
	var board storage.PostBoard
	ok, err := a.store.Get(ctx, storage.KeyPosts, &board)
	if err != nil {
		printlnFn("Reading posts failed:", err.Error())
		return err
	}
	if !ok || len(board.Posts) == 0 {
		printlnFn("No posts yet")
		return nil
	}

	for _, p := range board.Posts {
		printlnFn(fmt.Sprintf("[%s] %s @%s: %s", p.ID, p.CreatedAt.Format("2006-01-02 15:04"), p.Author, p.Body))
	}
	return nil
}

// AddContact looks the username up on the server and stores it in the local
// contact book.
func (a *App) AddContact(ctx context.Context, username string) error {
	users, err := a.api.Users(ctx)
	if err != nil {
		printlnFn("Looking up user failed:", err.Error())
		return err
	}

	var book storage.ContactBook
	if _, err := a.store.Get(ctx, storage.KeyContacts, &book); err != nil {
		printlnFn("Reading contacts failed:", err.Error())
		return err
	}

	for _, u := range users {
		if u.Username != username {
			continue
		}
		for _, c := range book.Contacts {
			if c.UserID == u.ID {
				printlnFn(username, "is already a contact")
				return nil
			}
		}
		book.Version = storage.SchemaVersion
		book.Contacts = append(book.Contacts, storage.Contact{
			UserID:   u.ID,
			Username: u.Username,
			Name:     u.DisplayName(),
			AddedAt:  time.Now().UTC(),
		})
		if err := a.store.Put(ctx, storage.KeyContacts, book); err != nil {
			printlnFn("Saving contact failed:", err.Error())
			return err
		}
		printlnFn("Added", username)
		return nil
	}

	printlnFn("No such user:", username)
	return nil
}

// ListContacts prints the local contact book.
func (a *App) ListContacts(ctx context.Context) error {
	var book storage.ContactBook
	ok, err := a.store.Get(ctx, storage.KeyContacts, &book)
	if err != nil {
		printlnFn("Reading contacts failed:", err.Error())
		return err
	}
	if !ok || len(book.Contacts) == 0 {
		printlnFn("No contacts yet")
		return nil
	}

	for _, c := range book.Contacts {
		printlnFn(fmt.Sprintf("  %-20s %s (added %s)", c.Username, c.Name, c.AddedAt.Format("2006-01-02")))
	}
	return nil
}

// Favorite marks a local post as favorite. Marking twice is a no-op.
func (a *App) Favorite(ctx context.Context, postID string) error {
	var board storage.PostBoard
	if _, err := a.store.Get(ctx, storage.KeyPosts, &board); err != nil {
		printlnFn("Reading posts failed:", err.Error())
		return err
	}
	found := false
	for _, p := range board.Posts {
		if p.ID == postID {
			found = true
			break
		}
	}
	if !found {
		printlnFn("No such post:", postID)
		return nil
	}

	var favs storage.FavoriteSet
	if _, err := a.store.Get(ctx, storage.KeyFavorites, &favs); err != nil {
		printlnFn("Reading favorites failed:", err.Error())
		return err
	}
	for _, id := range favs.PostIDs {
		if id == postID {
			printlnFn("Already a favorite")
			return nil
		}
	}
	favs.Version = storage.SchemaVersion
	favs.PostIDs = append(favs.PostIDs, postID)

	if err := a.store.Put(ctx, storage.KeyFavorites, favs); err != nil {
		printlnFn("Saving favorite failed:", err.Error())
		return err
	}
	printlnFn("Marked", postID)
	return nil
}

// ListFavorites prints the favorited posts.
func (a *App) ListFavorites(ctx context.Context) error {
	var favs storage.FavoriteSet
	ok, err := a.store.Get(ctx, storage.KeyFavorites, &favs)
	if err != nil {
		printlnFn("Reading favorites failed:", err.Error())
		return err
	}
	if !ok || len(favs.PostIDs) == 0 {
		printlnFn("No favorites yet")
		return nil
	}

	var board storage.PostBoard
	if _, err := a.store.Get(ctx, storage.KeyPosts, &board); err != nil {
		printlnFn("Reading posts failed:", err.Error())
		return err
	}
	byID := make(map[string]storage.Post, len(board.Posts))
	for _, p := range board.Posts {
		byID[p.ID] = p
	}

	for _, id := range favs.PostIDs {
		if p, ok := byID[id]; ok {
			printlnFn(fmt.Sprintf("[%s] @%s: %s", p.ID, p.Author, p.Body))
		} else {
			printlnFn(fmt.Sprintf("[%s] (post removed)", id))
		}
	}
	return nil
}

// Say appends a message addressed to another user to the local history.
func (a *App) Say(ctx context.Context, to, body string) error {
	var mlog storage.MessageLog
	if _, err := a.store.Get(ctx, storage.KeyMessages, &mlog); err != nil {
		printlnFn("Reading history failed:", err.Error())
		return err
	}

	msg := storage.Message{
		ID:     strconv.FormatInt(time.Now().UnixMilli(), 10),
		From:   a.currentUsername(),
		To:     to,
		Body:   body,
		SentAt: time.Now().UTC(),
	}
	mlog.Version = storage.SchemaVersion
	mlog.Messages = append(mlog.Messages, msg)

	if err := a.store.Put(ctx, storage.KeyMessages, mlog); err != nil {
		printlnFn("Saving message failed:", err.Error())
		return err
	}
	printlnFn(fmt.Sprintf("-> %s: %s", to, body))
	return nil
}

// History prints the local message history, oldest first.
func (a *App) History(ctx context.Context) error {
	var mlog storage.MessageLog
	ok, err := a.store.Get(ctx, storage.KeyMessages, &mlog)
	if err != nil {
		printlnFn("Reading history failed:", err.Error())
		return err
	}
	if !ok || len(mlog.Messages) == 0 {
		printlnFn("No messages yet")
		return nil
	}

	for _, m := range mlog.Messages {
		printlnFn(fmt.Sprintf("%s %s -> %s: %s", m.SentAt.Format("2006-01-02 15:04"), m.From, m.To, m.Body))
	}
	return nil
}
