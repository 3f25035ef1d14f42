package signal

import (
	"fmt"
	"net/url"
	"strings"

	"gopkg.in/telebot.v3"
)

const (
	phantomTokenURL = "https://phantom.com/tokens/solana/%s"
	phantomSwapURL  = "https://phantom.com/ul/v1/swap?buy=%s"
)

// ButtonProvider builds the wallet-action keyboard attached to a signal.
type ButtonProvider interface {
	Buttons(tokenAddress, tokenSymbol string) *telebot.ReplyMarkup
}

type phantomButtons struct{}

// NewPhantomButtons returns a ButtonProvider linking to the Phantom wallet.
func NewPhantomButtons() ButtonProvider {
	return phantomButtons{}
}

func (phantomButtons) Buttons(tokenAddress, tokenSymbol string) *telebot.ReplyMarkup {
	symbol := strings.ToUpper(tokenSymbol)
	address := url.PathEscape(tokenAddress)

	menu := &telebot.ReplyMarkup{}
	btnBuy := menu.URL("🛒 Buy $"+symbol, fmt.Sprintf(phantomSwapURL, url.QueryEscape(tokenAddress)))
	btnView := menu.URL("👀 View $"+symbol, fmt.Sprintf(phantomTokenURL, address))
	menu.Inline(menu.Row(btnBuy, btnView))
	return menu
}
