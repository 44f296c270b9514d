package bot

const msgWelcome = `👋 Welcome to the Bakery Bot!

I can help you manage your ingredients, track stock, and log costs.

Available modes:
• Ingredient Manager — type "Manage Ingredients" to track stock, costs and purchases in plain language.
  In manager mode, send actions like "Bought 1 kg Flour for 5" or "Check stock for ING001".
  To exit, type STOP.

You can type start, hello or help anytime to see this message.`

const msgManagerWelcome = `🧾 Ingredient Manager mode.

Tell me what happened and I'll keep the ledger up to date, e.g.:
• Bought 2 kg Flour for 10
• Increase Flour stock by 2 kg
• Set Flour stock to 4 kg
• 2 kg Flour now costs 11
• Flour stock is 4 kg worth 20
• Used 200 g of Flour
• Received 2 kg Flour
• Add new ingredient Sugar: 5 kg at 2.5
• What is the stock of Flour?  /  Check stock for ING001
• Show inventory  /  Export inventory

Type STOP to exit.`

const msgHelpFallback = `🤔 I didn't understand that. Here's what I can do:
• Bought <qty> <unit> <name> for <price>
• Increase/Decrease <name> stock by <qty> <unit>
• Add/Subtract <qty> <unit> to/from <name>
• Set <name> stock to <qty> <unit>
• <qty> <unit> <name> now costs <price>
• <name> stock is <qty> <unit> worth <price>
• Used <qty> <unit> of <name>
• Received <qty> <unit> <name>
• Add new ingredient <name>: <qty> <unit> at <price>
• What is the stock of <name>?  /  Check stock for <ID>
• Show inventory  /  Export inventory
• STOP to exit`

const msgExit = `👋 Leaving Ingredient Manager mode. Type "Manage Ingredients" to come back.`

const msgInternalError = `⚠️ Something went wrong on my side — please try again.`

const msgIdleHint = `Type "Manage Ingredients" to manage your stock, or "help" to see everything I can do.`
