package bot

import (
	"fmt"
	"strings"

	"sweetshop-bot/internal/order"
	"sweetshop-bot/internal/weather"
)

const shopURL = "https://sweetshop.example.com"

const (
	msgStart = "Hello! I am the sweet shop order bot. Type /help for assistance."
	msgInfo  = "This bot helps you browse our confectionery products and place an order!"

	msgChooseAction = "Choose an action:"
	msgChooseOption = "Choose an option:"

	msgAskCity       = "Enter the name of the city you want the weather for:"
	msgWeatherFailed = "Could not fetch the weather data. Please check the city name."

	msgAskProduct     = "Enter the product name:"
	msgAskQuantity    = "Enter the quantity (for example, 2):"
	msgQuantityNotNum = "The quantity must be a number! Please try again."

	msgNoOrders       = "You have no active orders."
	msgCatalogPending = "The catalog is not available yet."

	msgRates = "USD: 39.5 UAH, EUR: 42.0 UAH (indicative)"

	msgGreeting = "Hello! I am the sweet shop order bot.\n" +
		"Here are the commands I can run:\n" +
		"/start - Start working with the bot\n" +
		"/help - Help\n" +
		"/info - About the bot\n" +
		"/weather - Weather information"
)

func formatWeather(r *weather.Report) string {
	return fmt.Sprintf(
		"Weather in <b>%s</b>:\nTemperature: %.1f°C\nDescription: %s",
		r.City, r.Temp, r.Description,
	)
}

func formatOrderCreated(o *order.Order) string {
	return fmt.Sprintf("Order created: %s, %d pcs", o.ProductName, o.Quantity)
}

func formatOrderList(orders []order.Order) string {
	var b strings.Builder
	b.WriteString("Your orders:")
	for i, o := range orders {
		fmt.Fprintf(&b, "\n%d. %s - %d pcs", i+1, o.ProductName, o.Quantity)
	}
	return b.String()
}

func formatEcho(text string) string {
	return fmt.Sprintf("You said %q.\nMaybe /help has the answer.", text)
}

func isGreeting(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "hi", "hello":
		return true
	}
	return false
}

func helpKeyboard() [][]string {
	return [][]string{
		{"/start", "/info"},
		{"/weather", "/menu"},
		{"/inline_menu"},
	}
}

func orderMenu() [][]InlineButton {
	return [][]InlineButton{
		{{Label: "Catalog", Action: tokenCatalog}},
		{{Label: "Make an order", Action: tokenOrder}},
		{{Label: "My orders", Action: tokenMyOrders}},
	}
}

func linkMenu() [][]InlineButton {
	return [][]InlineButton{
		{{Label: "Visit our shop", URL: shopURL}},
		{{Label: "Get exchange rate", Action: tokenGetRate}},
	}
}
