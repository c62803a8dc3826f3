package bot

// User-facing texts for every screen and outcome.
const (
	answerChooseAction = "Choose an action:"

	answerNoMenuYet = "The menu does not exist yet. Create it from the admin panel."
	answerNoAccess  = "Your account has no access. Contact the venue manager."

	answerMenuCreated = "Menu created. Add categories and dishes to see it from the bot."

	answerAddCategoryHelp = "To add a category, send the bot a message:\n" +
		"/add_category category_name\n\n" +
		"Use underscores instead of spaces in multi-word names."

	answerAddDishHelp = "To add a dish, send the bot a message:\n" +
		"/add_dish category_name dish_name price description\n\n" +
		"Use underscores instead of spaces in category, dish and description. " +
		"The description is optional.\n\nAvailable categories:\n"

	answerCategoryAdded = "Category added to the menu."
	answerDishAdded     = "Dish added to the category."

	answerDishGone = "This item is no longer available."

	answerStoreTrouble = "Something went wrong, please try again later."

	answerCategoryEmpty = "There are no dishes in this category yet."
)
