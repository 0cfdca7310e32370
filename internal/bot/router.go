package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"sweetshop-bot/internal/logger"
	"sweetshop-bot/internal/media"
	"sweetshop-bot/internal/order"
	"sweetshop-bot/internal/session"
	"sweetshop-bot/internal/weather"

	"go.uber.org/zap"
)

// WeatherService is the slice of the weather adapter the router needs.
type WeatherService interface {
	Current(ctx context.Context, city string) (*weather.Report, error)
}

// Router maps one inbound event to exactly one handler and one reply.
// Dispatch priority: attachment, action token, open dialogue state (which
// swallows any text, commands included), top-level command, free-text
// fallback.
type Router struct {
	sessions session.Store
	orders   order.Service
	weather  WeatherService

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewRouter(sessions session.Store, orders order.Service, w WeatherService) *Router {
	return &Router{
		sessions: sessions,
		orders:   orders,
		weather:  w,
		locks:    make(map[int64]*sync.Mutex),
	}
}

// Handle processes one inbound event under the owner's lock, so two updates
// from the same user can never race on the same session. An error means the
// request failed terminally: the transport logs it and sends nothing.
func (r *Router) Handle(ctx context.Context, in Incoming) (Reply, error) {
	lock := r.ownerLock(in.UserID)
	lock.Lock()
	defer lock.Unlock()

	sess, err := r.sessions.Get(ctx, in.UserID)
	if err != nil {
		return Reply{}, fmt.Errorf("session get: %w", err)
	}

	switch {
	case in.Attachment != nil:
		// Attachments are echoed even mid-dialogue; the dialogue only
		// consumes text.
		return Reply{Text: media.Describe(*in.Attachment)}, nil

	case in.Action != "":
		// Actions are callback events, not text, so an open dialogue does
		// not swallow them. A fresh "order" action overwrites stale state.
		return r.handleAction(ctx, in.UserID, in.Action)

	case sess.State != session.StateIdle:
		// State-bound input takes precedence over any command text:
		// typing /start mid-dialogue is dialogue input, not a command.
		return r.handleDialogue(ctx, in.UserID, sess, in.Text)

	default:
		if cmd, ok := ParseCommand(in.Text); ok {
			return r.handleCommand(ctx, in.UserID, cmd)
		}
		return r.handleFreeText(in.Text), nil
	}
}

func (r *Router) ownerLock(ownerID int64) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	lock, ok := r.locks[ownerID]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[ownerID] = lock
	}
	return lock
}

func (r *Router) handleCommand(ctx context.Context, userID int64, cmd Command) (Reply, error) {
	switch cmd {
	case CmdStart:
		return Reply{Text: msgStart}, nil
	case CmdHelp:
		return Reply{Text: msgChooseAction, ReplyKeyboard: helpKeyboard()}, nil
	case CmdInfo:
		return Reply{Text: msgInfo}, nil
	case CmdInlineMenu:
		return Reply{Text: msgChooseAction, Inline: orderMenu()}, nil
	case CmdMenu:
		return Reply{Text: msgChooseOption, Inline: linkMenu()}, nil
	case CmdWeather:
		if err := r.sessions.SetState(ctx, userID, session.StateAwaitingCity); err != nil {
			return Reply{}, fmt.Errorf("start weather dialogue: %w", err)
		}
		return Reply{Text: msgAskCity}, nil
	}
	return Reply{}, fmt.Errorf("unhandled command %d", cmd)
}

func (r *Router) handleAction(ctx context.Context, userID int64, token string) (Reply, error) {
	act, ok := ParseAction(token)
	if !ok {
		logger.FromCtx(ctx).Warn("unknown action token", zap.String("token", token))
		return Reply{Text: formatEcho(token)}, nil
	}

	switch act {
	case ActionCatalog:
		return Reply{Text: msgCatalogPending}, nil

	case ActionOrder:
		// Clear first so stale scratch from an abandoned dialogue never
		// leaks into the new one.
		if err := r.sessions.Clear(ctx, userID); err != nil {
			return Reply{}, fmt.Errorf("reset session: %w", err)
		}
		if err := r.sessions.SetState(ctx, userID, session.StateAwaitingProductName); err != nil {
			return Reply{}, fmt.Errorf("start order dialogue: %w", err)
		}
		return Reply{Text: msgAskProduct}, nil

	case ActionMyOrders:
		orders, err := r.orders.History(ctx, userID)
		if err != nil {
			return Reply{}, fmt.Errorf("list orders: %w", err)
		}
		if len(orders) == 0 {
			return Reply{Text: msgNoOrders}, nil
		}
		return Reply{Text: formatOrderList(orders)}, nil

	case ActionGetRate:
		return Reply{Text: msgRates}, nil
	}
	return Reply{}, fmt.Errorf("unhandled action %d", act)
}

func (r *Router) handleDialogue(ctx context.Context, userID int64, sess session.Session, text string) (Reply, error) {
	switch sess.State {
	case session.StateAwaitingCity:
		return r.handleCityInput(ctx, userID, text)
	case session.StateAwaitingProductName:
		return r.handleProductInput(ctx, userID, text)
	case session.StateAwaitingQuantity:
		return r.handleQuantityInput(ctx, userID, sess, text)
	}
	return Reply{}, fmt.Errorf("unhandled dialogue state %v", sess.State)
}

func (r *Router) handleCityInput(ctx context.Context, userID int64, text string) (Reply, error) {
	city := strings.TrimSpace(text)

	report, err := r.weather.Current(ctx, city)

	// The weather dialogue ends after one attempt no matter what.
	if clearErr := r.sessions.Clear(ctx, userID); clearErr != nil {
		return Reply{}, fmt.Errorf("clear session: %w", clearErr)
	}

	if err != nil {
		logger.FromCtx(ctx).Warn("weather lookup failed",
			zap.String("city", city),
			zap.Error(err),
		)
		return Reply{Text: msgWeatherFailed}, nil
	}
	return Reply{Text: formatWeather(report)}, nil
}

func (r *Router) handleProductInput(ctx context.Context, userID int64, text string) (Reply, error) {
	// Trimmed but otherwise unvalidated: an empty product name is accepted.
	name := strings.TrimSpace(text)

	if err := r.sessions.SetField(ctx, userID, session.FieldProductName, name); err != nil {
		return Reply{}, fmt.Errorf("save product name: %w", err)
	}
	if err := r.sessions.SetState(ctx, userID, session.StateAwaitingQuantity); err != nil {
		return Reply{}, fmt.Errorf("advance order dialogue: %w", err)
	}
	return Reply{Text: msgAskQuantity}, nil
}

func (r *Router) handleQuantityInput(ctx context.Context, userID int64, sess session.Session, text string) (Reply, error) {
	// Base-10 digits only: accepts "2", "0", "007"; rejects signs, decimals
	// and words. A rejected input re-prompts without touching the session.
	qty, err := strconv.ParseUint(strings.TrimSpace(text), 10, 32)
	if err != nil {
		return Reply{Text: msgQuantityNotNum}, nil
	}

	name := sess.Scratch[session.FieldProductName]

	o, err := r.orders.PlaceOrder(ctx, userID, name, uint(qty))
	if err != nil {
		return Reply{}, fmt.Errorf("place order: %w", err)
	}

	if err := r.sessions.Clear(ctx, userID); err != nil {
		return Reply{}, fmt.Errorf("clear session: %w", err)
	}
	return Reply{Text: formatOrderCreated(o)}, nil
}

func (r *Router) handleFreeText(text string) Reply {
	if isGreeting(text) {
		return Reply{Text: msgGreeting}
	}
	return Reply{Text: formatEcho(text)}
}
