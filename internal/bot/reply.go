package bot

// InlineButton is one selectable option attached to a reply. Action buttons
// come back as Incoming.Action when pressed; URL buttons open in the client.
type InlineButton struct {
	Label  string
	Action string
	URL    string
}

// Reply is the single outbound message a handler produces. At most one of
// ReplyKeyboard and Inline is set.
type Reply struct {
	Text          string
	ReplyKeyboard [][]string
	Inline        [][]InlineButton
}
