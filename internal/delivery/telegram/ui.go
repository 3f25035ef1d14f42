package telegram

const (
	messageWelcome = `👋 *Welcome to the Token Signal Bot!* 🤖
I watch Solana tokens and answer questions about your holdings.

🔧 Commands:
👛 /wallet - Show your wallet and top holdings
⚙️ /setup - Set or change your wallet address
🧹 /forget - Delete your profile and chat history
🆘 /help - Show the full guide
❌ /cancel - Cancel the setup in progress

💬 Or just ask me anything about your tokens.`

	messageHelp = `❓ *How to use the Token Signal Bot* ❓

🤖 *Commands:*
/start - Show the welcome message
/help - Show this guide
/setup - Set or change your wallet address
/wallet - Show your wallet and top holdings
/forget - Delete your profile and chat history
/cancel - Cancel the setup in progress

💡 *Tips:*
1. Run /setup first so answers can use your holdings
2. Ask in plain language, for example "how is BONK doing?"
3. Signals come with Buy and View buttons that open Phantom

📌 Signals are a reference only. *Do Your Own Research!* 🔍`

	messageUnknownCommand    = "I don't recognize that command. Use /help to see the list of commands."
	messageNothingToCancel   = "There is no setup in progress."
	messageNoWallet          = "No wallet address stored yet. Send /setup to add one."
	messageWalletUnavailable = "I'm sorry, I couldn't load your wallet right now. Please try again."
	messageForgotten         = "🧹 Your profile and chat history have been deleted."
	messageForgetFailed      = "I'm sorry, I couldn't delete your data. Please try again."
)
