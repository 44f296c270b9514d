package bot

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ovenlog/bakery-bot/internal/dialog"
	"github.com/ovenlog/bakery-bot/internal/intent"
	"github.com/ovenlog/bakery-bot/internal/ledger"
)

type Bot struct {
	api    *tgbotapi.BotAPI
	log    *slog.Logger
	states *dialog.Repo
	svc    *ledger.Service
}

func New(api *tgbotapi.BotAPI, log *slog.Logger, statesRepo *dialog.Repo, svc *ledger.Service) *Bot {
	return &Bot{api: api, log: log, states: statesRepo, svc: svc}
}

func (b *Bot) Run(ctx context.Context, timeoutSec int) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeoutSec
	updates := b.api.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case upd := <-updates:
			if upd.Message != nil && upd.Message.Text != "" {
				b.onMessage(ctx, upd.Message)
			}
		}
	}
}

func (b *Bot) onMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	actorID := strconv.FormatInt(msg.From.ID, 10)
	text := strings.TrimSpace(msg.Text)
	lower := strings.ToLower(strings.TrimPrefix(text, "/"))

	st, err := b.states.Get(ctx, chatID)
	if err != nil {
		b.log.Error("dialog state read failed", "chat", chatID, "err", err)
		b.send(tgbotapi.NewMessage(chatID, msgInternalError))
		return
	}

	if st.State == dialog.StateIngredients {
		// Mode bookkeeping stays out of the core: STOP and Excel export
		// need the transport (state write, document upload), everything
		// else goes through the single HandleMessage surface.
		switch in := intent.Interpret(text); in.Kind {
		case intent.Exit:
			if err := b.states.Reset(ctx, chatID); err != nil {
				b.log.Error("dialog state reset failed", "chat", chatID, "err", err)
			}
			b.send(tgbotapi.NewMessage(chatID, msgExit))
		case intent.Export:
			b.sendInventoryExport(ctx, chatID)
		default:
			b.send(tgbotapi.NewMessage(chatID, b.HandleMessage(ctx, text, actorID)))
		}
		return
	}

	switch lower {
	case "manage ingredients":
		if err := b.states.Set(ctx, chatID, dialog.StateIngredients); err != nil {
			b.log.Error("dialog state write failed", "chat", chatID, "err", err)
			b.send(tgbotapi.NewMessage(chatID, msgInternalError))
			return
		}
		b.send(tgbotapi.NewMessage(chatID, msgManagerWelcome))
	case "start", "hello", "hi", "help":
		b.send(tgbotapi.NewMessage(chatID, msgWelcome))
	default:
		b.send(tgbotapi.NewMessage(chatID, msgIdleHint))
	}
}

func (b *Bot) send(msg tgbotapi.Chattable) {
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send failed", "err", err)
	}
}
