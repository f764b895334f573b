package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/equilibri/internal/common"
)

const timeLayout = "2006-01-02 15:04"

// parseConversationID accepts only positive decimal IDs.
func parseConversationID(ref string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(ref), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid conversation id", common.ErrInvalidArgument)
	}
	return id, nil
}

func (a *App) report(err error) error {
	a.println(common.UserMessage(err))
	return err
}

func (a *App) List(ctx context.Context) error {
	list, err := a.core.ListConversations(ctx)
	if err != nil {
		return a.report(err)
	}
	if len(list) == 0 {
		a.println("No chats yet. Create one with 'new [title]'.")
		return nil
	}

	active := int64(0)
	if s, ok := a.core.Current(); ok {
		active = s.ActiveConversationID
	}
	for _, c := range list {
		mark := " "
		if c.ID == active {
			mark = "*"
		}
		a.println(fmt.Sprintf("%s #%-4d %-30s %3d msg  %s", mark, c.ID, c.Title, c.MessageCount, c.CreatedAt.Local().Format(timeLayout)))
	}
	return nil
}

func (a *App) NewChat(ctx context.Context, title string) error {
	conv, err := a.core.NewChat(ctx, title)
	if err != nil {
		return a.report(err)
	}
	a.println(fmt.Sprintf("Started chat #%d %q", conv.ID, conv.Title))
	return nil
}

func (a *App) Select(ctx context.Context, ref string) error {
	id, err := parseConversationID(ref)
	if err != nil {
		a.println("invalid conversation id")
		return err
	}
	if err := a.core.SelectConversation(ctx, id); err != nil {
		return a.report(err)
	}
	return a.Show(ctx)
}

func (a *App) Send(ctx context.Context, text string) error {
	ex, err := a.core.SendMessage(ctx, text)
	if err != nil {
		return a.report(err)
	}
	a.println(ex.Assistant.String())
	return nil
}

func (a *App) Show(ctx context.Context) error {
	view, err := a.core.ActiveConversation(ctx)
	if err != nil {
		return a.report(err)
	}
	a.println(fmt.Sprintf("== %s (#%d) ==", view.Conversation.Title, view.Conversation.ID))
	if len(view.Messages) == 0 {
		a.println("(no messages yet)")
		return nil
	}
	for _, m := range view.Messages {
		a.println(m.String())
	}
	return nil
}

func (a *App) Clear(ctx context.Context) error {
	if err := a.core.ClearActive(ctx); err != nil {
		return a.report(err)
	}
	a.println("Chat cleared.")
	return nil
}

func (a *App) Delete(ctx context.Context, ref string) error {
	id, err := parseConversationID(ref)
	if err != nil {
		a.println("invalid conversation id")
		return err
	}
	if err := a.core.DeleteConversation(ctx, id); err != nil {
		return a.report(err)
	}
	a.println(fmt.Sprintf("Chat #%d deleted.", id))
	return nil
}
