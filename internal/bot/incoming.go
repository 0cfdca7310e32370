package bot

import "sweetshop-bot/internal/media"

// Incoming is one inbound event, already stripped of transport details.
// Exactly one of Text, Action or Attachment is meaningful: a plain message
// carries Text, an inline-keyboard press carries Action, a media message
// carries Attachment.
type Incoming struct {
	UserID     int64
	Text       string
	Action     string
	Attachment *media.Attachment
}

// Command is the closed set of top-level slash commands. Unknown text never
// becomes a Command; it falls through to the echo handler explicitly.
type Command int

const (
	CmdStart Command = iota + 1
	CmdHelp
	CmdInfo
	CmdMenu
	CmdInlineMenu
	CmdWeather
)

// ParseCommand maps a message text to a Command.
func ParseCommand(text string) (Command, bool) {
	switch text {
	case "/start":
		return CmdStart, true
	case "/help":
		return CmdHelp, true
	case "/info":
		return CmdInfo, true
	case "/menu":
		return CmdMenu, true
	case "/inline_menu":
		return CmdInlineMenu, true
	case "/weather":
		return CmdWeather, true
	}
	return 0, false
}

// Action is the closed set of inline-keyboard action tokens.
type Action int

const (
	ActionCatalog Action = iota + 1
	ActionOrder
	ActionMyOrders
	ActionGetRate
)

const (
	tokenCatalog  = "catalog"
	tokenOrder    = "order"
	tokenMyOrders = "my_orders"
	tokenGetRate  = "get_rate"
)

// ParseAction maps a callback token to an Action.
func ParseAction(token string) (Action, bool) {
	switch token {
	case tokenCatalog:
		return ActionCatalog, true
	case tokenOrder:
		return ActionOrder, true
	case tokenMyOrders:
		return ActionMyOrders, true
	case tokenGetRate:
		return ActionGetRate, true
	}
	return 0, false
}
