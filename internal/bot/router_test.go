package bot

import (
	"context"
	"errors"
	"testing"

	"sweetshop-bot/internal/media"
	"sweetshop-bot/internal/order"
	"sweetshop-bot/internal/session"
	"sweetshop-bot/internal/weather"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOrderService is a mock implementation of order.Service
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) PlaceOrder(ctx context.Context, userID int64, productName string, quantity uint) (*order.Order, error) {
	args := m.Called(ctx, userID, productName, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) History(ctx context.Context, userID int64) ([]order.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

// MockWeather is a mock implementation of WeatherService
type MockWeather struct {
	mock.Mock
}

func (m *MockWeather) Current(ctx context.Context, city string) (*weather.Report, error) {
	args := m.Called(ctx, city)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*weather.Report), args.Error(1)
}

func newTestRouter(t *testing.T) (*Router, *session.MemoryStore, *MockOrderService, *MockWeather) {
	t.Helper()
	sessions := session.NewMemoryStore()
	orders := new(MockOrderService)
	wthr := new(MockWeather)
	return NewRouter(sessions, orders, wthr), sessions, orders, wthr
}

func stateOf(t *testing.T, sessions *session.MemoryStore, ownerID int64) session.State {
	t.Helper()
	sess, err := sessions.Get(context.Background(), ownerID)
	require.NoError(t, err)
	return sess.State
}

func TestRouter_OrderDialogue(t *testing.T) {
	ctx := context.Background()
	router, sessions, orders, _ := newTestRouter(t)
	const userID = int64(1)

	orders.On("PlaceOrder", ctx, userID, "Candy", uint(3)).
		Return(&order.Order{ID: 1, UserID: userID, ProductName: "Candy", Quantity: 3}, nil)

	// order action: prompt for product name
	reply, err := router.Handle(ctx, Incoming{UserID: userID, Action: "order"})
	require.NoError(t, err)
	assert.Equal(t, msgAskProduct, reply.Text)
	assert.Equal(t, session.StateAwaitingProductName, stateOf(t, sessions, userID))

	// product name: prompt for quantity
	reply, err = router.Handle(ctx, Incoming{UserID: userID, Text: "Candy"})
	require.NoError(t, err)
	assert.Equal(t, msgAskQuantity, reply.Text)
	assert.Equal(t, session.StateAwaitingQuantity, stateOf(t, sessions, userID))

	// quantity: order stored, session reset
	reply, err = router.Handle(ctx, Incoming{UserID: userID, Text: "3"})
	require.NoError(t, err)
	assert.Equal(t, "Order created: Candy, 3 pcs", reply.Text)
	assert.Equal(t, session.StateIdle, stateOf(t, sessions, userID))

	orders.AssertExpectations(t)
}

func TestRouter_QuantityParsing(t *testing.T) {
	ctx := context.Background()
	const userID = int64(1)

	accepted := map[string]uint{
		"2":   2,
		"0":   0,
		"007": 7,
	}
	for input, want := range accepted {
		t.Run("Accepts_"+input, func(t *testing.T) {
			router, sessions, orders, _ := newTestRouter(t)
			require.NoError(t, sessions.SetField(ctx, userID, session.FieldProductName, "Candy"))
			require.NoError(t, sessions.SetState(ctx, userID, session.StateAwaitingQuantity))

			orders.On("PlaceOrder", ctx, userID, "Candy", want).
				Return(&order.Order{ProductName: "Candy", Quantity: want}, nil)

			_, err := router.Handle(ctx, Incoming{UserID: userID, Text: input})
			require.NoError(t, err)
			assert.Equal(t, session.StateIdle, stateOf(t, sessions, userID))
			orders.AssertExpectations(t)
		})
	}

	rejected := []string{"two", "2.5", "-1", "", "+5", "3 apples"}
	for _, input := range rejected {
		t.Run("Rejects_"+input, func(t *testing.T) {
			router, sessions, orders, _ := newTestRouter(t)
			require.NoError(t, sessions.SetField(ctx, userID, session.FieldProductName, "Candy"))
			require.NoError(t, sessions.SetState(ctx, userID, session.StateAwaitingQuantity))

			reply, err := router.Handle(ctx, Incoming{UserID: userID, Text: input})
			require.NoError(t, err)
			assert.Equal(t, msgQuantityNotNum, reply.Text)

			// state and scratch untouched, retry allowed
			sess, err := sessions.Get(ctx, userID)
			require.NoError(t, err)
			assert.Equal(t, session.StateAwaitingQuantity, sess.State)
			assert.Equal(t, "Candy", sess.Scratch[session.FieldProductName])
			orders.AssertNotCalled(t, "PlaceOrder", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestRouter_CommandSwallowedMidDialogue(t *testing.T) {
	ctx := context.Background()
	router, sessions, _, _ := newTestRouter(t)
	const userID = int64(1)

	require.NoError(t, sessions.SetField(ctx, userID, session.FieldProductName, "Candy"))
	require.NoError(t, sessions.SetState(ctx, userID, session.StateAwaitingQuantity))

	// /start mid-dialogue is quantity input, which fails the numeric parse.
	reply, err := router.Handle(ctx, Incoming{UserID: userID, Text: "/start"})
	require.NoError(t, err)
	assert.Equal(t, msgQuantityNotNum, reply.Text)
	assert.NotEqual(t, msgStart, reply.Text)
	assert.Equal(t, session.StateAwaitingQuantity, stateOf(t, sessions, userID))
}

func TestRouter_OrderActionOverwritesStaleDialogue(t *testing.T) {
	ctx := context.Background()
	router, sessions, orders, _ := newTestRouter(t)
	const userID = int64(1)

	require.NoError(t, sessions.SetField(ctx, userID, session.FieldProductName, "Candy"))
	require.NoError(t, sessions.SetState(ctx, userID, session.StateAwaitingQuantity))

	// A fresh order action restarts the dialogue and drops stale scratch.
	reply, err := router.Handle(ctx, Incoming{UserID: userID, Action: "order"})
	require.NoError(t, err)
	assert.Equal(t, msgAskProduct, reply.Text)

	sess, err := sessions.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, session.StateAwaitingProductName, sess.State)
	assert.Empty(t, sess.Scratch)

	orders.On("PlaceOrder", ctx, userID, "Cake", uint(2)).
		Return(&order.Order{ProductName: "Cake", Quantity: 2}, nil)

	_, err = router.Handle(ctx, Incoming{UserID: userID, Text: "Cake"})
	require.NoError(t, err)
	_, err = router.Handle(ctx, Incoming{UserID: userID, Text: "2"})
	require.NoError(t, err)

	orders.AssertExpectations(t)
}

func TestRouter_EmptyProductNameAccepted(t *testing.T) {
	ctx := context.Background()
	router, sessions, _, _ := newTestRouter(t)
	const userID = int64(1)

	_, err := router.Handle(ctx, Incoming{UserID: userID, Action: "order"})
	require.NoError(t, err)

	reply, err := router.Handle(ctx, Incoming{UserID: userID, Text: "   "})
	require.NoError(t, err)
	assert.Equal(t, msgAskQuantity, reply.Text)

	sess, err := sessions.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, session.StateAwaitingQuantity, sess.State)
	assert.Equal(t, "", sess.Scratch[session.FieldProductName])
}

func TestRouter_WeatherDialogue(t *testing.T) {
	ctx := context.Background()
	const userID = int64(1)

	t.Run("Success", func(t *testing.T) {
		router, sessions, _, wthr := newTestRouter(t)

		reply, err := router.Handle(ctx, Incoming{UserID: userID, Text: "/weather"})
		require.NoError(t, err)
		assert.Equal(t, msgAskCity, reply.Text)
		assert.Equal(t, session.StateAwaitingCity, stateOf(t, sessions, userID))

		wthr.On("Current", ctx, "Kyiv").
			Return(&weather.Report{City: "Kyiv", Temp: 21.5, Description: "scattered clouds"}, nil)

		reply, err = router.Handle(ctx, Incoming{UserID: userID, Text: "Kyiv"})
		require.NoError(t, err)
		assert.Contains(t, reply.Text, "Weather in <b>Kyiv</b>:")
		assert.Contains(t, reply.Text, "Temperature: 21.5°C")
		assert.Contains(t, reply.Text, "scattered clouds")
		assert.Equal(t, session.StateIdle, stateOf(t, sessions, userID))
	})

	t.Run("ProviderFailure", func(t *testing.T) {
		router, sessions, _, wthr := newTestRouter(t)

		_, err := router.Handle(ctx, Incoming{UserID: userID, Text: "/weather"})
		require.NoError(t, err)

		wthr.On("Current", ctx, "Atlantis").Return(nil, weather.ErrUnavailable)

		reply, err := router.Handle(ctx, Incoming{UserID: userID, Text: "Atlantis"})
		require.NoError(t, err)
		assert.Equal(t, msgWeatherFailed, reply.Text)
		// No retry loop: dialogue resets even on failure.
		assert.Equal(t, session.StateIdle, stateOf(t, sessions, userID))
	})

	t.Run("CityNameIsTrimmed", func(t *testing.T) {
		router, _, _, wthr := newTestRouter(t)

		_, err := router.Handle(ctx, Incoming{UserID: userID, Text: "/weather"})
		require.NoError(t, err)

		wthr.On("Current", ctx, "Kyiv").
			Return(&weather.Report{City: "Kyiv", Temp: 1}, nil)

		_, err = router.Handle(ctx, Incoming{UserID: userID, Text: "  Kyiv  "})
		require.NoError(t, err)
		wthr.AssertExpectations(t)
	})
}

func TestRouter_MyOrders(t *testing.T) {
	ctx := context.Background()
	const userID = int64(1)

	t.Run("Empty", func(t *testing.T) {
		router, _, orders, _ := newTestRouter(t)
		orders.On("History", ctx, userID).Return([]order.Order{}, nil)

		reply, err := router.Handle(ctx, Incoming{UserID: userID, Action: "my_orders"})
		require.NoError(t, err)
		assert.Equal(t, msgNoOrders, reply.Text)
	})

	t.Run("NumberedListing", func(t *testing.T) {
		router, _, orders, _ := newTestRouter(t)
		orders.On("History", ctx, userID).Return([]order.Order{
			{ID: 1, ProductName: "Candy", Quantity: 3},
			{ID: 4, ProductName: "Chocolate", Quantity: 1},
		}, nil)

		reply, err := router.Handle(ctx, Incoming{UserID: userID, Action: "my_orders"})
		require.NoError(t, err)
		assert.Equal(t, "Your orders:\n1. Candy - 3 pcs\n2. Chocolate - 1 pcs", reply.Text)
	})

	t.Run("StoreFailure", func(t *testing.T) {
		router, _, orders, _ := newTestRouter(t)
		orders.On("History", ctx, userID).Return(nil, errors.New("db error"))

		_, err := router.Handle(ctx, Incoming{UserID: userID, Action: "my_orders"})
		assert.Error(t, err)
	})
}

func TestRouter_StaticCommands(t *testing.T) {
	ctx := context.Background()
	router, _, _, _ := newTestRouter(t)
	const userID = int64(1)

	t.Run("Start", func(t *testing.T) {
		reply, err := router.Handle(ctx, Incoming{UserID: userID, Text: "/start"})
		require.NoError(t, err)
		assert.Equal(t, msgStart, reply.Text)
	})

	t.Run("Info", func(t *testing.T) {
		reply, err := router.Handle(ctx, Incoming{UserID: userID, Text: "/info"})
		require.NoError(t, err)
		assert.Equal(t, msgInfo, reply.Text)
	})

	t.Run("HelpCarriesReplyKeyboard", func(t *testing.T) {
		reply, err := router.Handle(ctx, Incoming{UserID: userID, Text: "/help"})
		require.NoError(t, err)
		assert.Equal(t, msgChooseAction, reply.Text)
		assert.Equal(t, helpKeyboard(), reply.ReplyKeyboard)
	})

	t.Run("InlineMenuCarriesActions", func(t *testing.T) {
		reply, err := router.Handle(ctx, Incoming{UserID: userID, Text: "/inline_menu"})
		require.NoError(t, err)
		require.Len(t, reply.Inline, 3)
		assert.Equal(t, "catalog", reply.Inline[0][0].Action)
		assert.Equal(t, "order", reply.Inline[1][0].Action)
		assert.Equal(t, "my_orders", reply.Inline[2][0].Action)
	})

	t.Run("MenuCarriesLinkAndRate", func(t *testing.T) {
		reply, err := router.Handle(ctx, Incoming{UserID: userID, Text: "/menu"})
		require.NoError(t, err)
		require.Len(t, reply.Inline, 2)
		assert.NotEmpty(t, reply.Inline[0][0].URL)
		assert.Equal(t, "get_rate", reply.Inline[1][0].Action)
	})
}

func TestRouter_StaticActions(t *testing.T) {
	ctx := context.Background()
	router, _, _, _ := newTestRouter(t)
	const userID = int64(1)

	t.Run("CatalogPlaceholder", func(t *testing.T) {
		reply, err := router.Handle(ctx, Incoming{UserID: userID, Action: "catalog"})
		require.NoError(t, err)
		assert.Equal(t, msgCatalogPending, reply.Text)
	})

	t.Run("GetRate", func(t *testing.T) {
		reply, err := router.Handle(ctx, Incoming{UserID: userID, Action: "get_rate"})
		require.NoError(t, err)
		assert.Equal(t, msgRates, reply.Text)
	})

	t.Run("UnknownToken", func(t *testing.T) {
		reply, err := router.Handle(ctx, Incoming{UserID: userID, Action: "bogus"})
		require.NoError(t, err)
		assert.Contains(t, reply.Text, "bogus")
	})
}

func TestRouter_FreeText(t *testing.T) {
	ctx := context.Background()
	router, _, _, _ := newTestRouter(t)
	const userID = int64(1)

	t.Run("GreetingCaseInsensitive", func(t *testing.T) {
		for _, text := range []string{"hi", "Hi", "HELLO", " hello "} {
			reply, err := router.Handle(ctx, Incoming{UserID: userID, Text: text})
			require.NoError(t, err)
			assert.Equal(t, msgGreeting, reply.Text, "input %q", text)
		}
	})

	t.Run("EchoWithHelpPointer", func(t *testing.T) {
		reply, err := router.Handle(ctx, Incoming{UserID: userID, Text: "do you have marmalade?"})
		require.NoError(t, err)
		assert.Contains(t, reply.Text, `"do you have marmalade?"`)
		assert.Contains(t, reply.Text, "/help")
	})
}

func TestRouter_AttachmentMidDialogue(t *testing.T) {
	ctx := context.Background()
	router, sessions, _, _ := newTestRouter(t)
	const userID = int64(1)

	require.NoError(t, sessions.SetState(ctx, userID, session.StateAwaitingQuantity))

	reply, err := router.Handle(ctx, Incoming{
		UserID:     userID,
		Attachment: &media.Attachment{Kind: media.KindPhoto, FileID: "p-1", Width: 10, Height: 10},
	})
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Photo received!")
	// The dialogue is untouched by media input.
	assert.Equal(t, session.StateAwaitingQuantity, stateOf(t, sessions, userID))
}

func TestRouter_PersistenceFailureIsTerminal(t *testing.T) {
	ctx := context.Background()
	router, sessions, orders, _ := newTestRouter(t)
	const userID = int64(1)

	require.NoError(t, sessions.SetField(ctx, userID, session.FieldProductName, "Candy"))
	require.NoError(t, sessions.SetState(ctx, userID, session.StateAwaitingQuantity))

	orders.On("PlaceOrder", ctx, userID, "Candy", uint(3)).
		Return(nil, errors.New("db unreachable"))

	_, err := router.Handle(ctx, Incoming{UserID: userID, Text: "3"})
	assert.Error(t, err)
}

func TestParseCommand(t *testing.T) {
	for _, text := range []string{"/start", "/help", "/info", "/menu", "/inline_menu", "/weather"} {
		_, ok := ParseCommand(text)
		assert.True(t, ok, "command %q should parse", text)
	}

	_, ok := ParseCommand("/unknown")
	assert.False(t, ok)
	_, ok = ParseCommand("start")
	assert.False(t, ok)
}

func TestParseAction(t *testing.T) {
	for _, token := range []string{"catalog", "order", "my_orders", "get_rate"} {
		_, ok := ParseAction(token)
		assert.True(t, ok, "action %q should parse", token)
	}

	_, ok := ParseAction("refund")
	assert.False(t, ok)
}
