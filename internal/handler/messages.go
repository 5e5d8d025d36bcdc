package handler

// Фиксированные сообщения ответов /user. Сырые тексты ошибок клиенту не отдаются.
const (
	MessageUserExists           = "Email already in use, please try a new email or signin"
	MessageUserNotFound         = "The user does not exist. Please try with a different email or signup"
	MessageOTPSuccess           = "OTP code sent successfully"
	MessageOTPError             = "Error sending OTP code, please try again"
	MessageSignupSuccess        = "User registered successfully"
	MessageSignupError          = "Something went wrong while registering the user, please try again"
	MessageSigninSuccess        = "Signin successful"
	MessageSigninError          = "Error signing you in, please try again"
	MessageInvalidPassword      = "The password is incorrect. Please try again or reset your account password"
	MessageResetPasswordSuccess = "Password successfully reset"
	MessageResetPasswordError   = "There was some error resetting your password. Please try again"
	MessageNewPasswordMismatch  = "New password can not be same as the old password"
	MessageOTPMismatch          = "The otp you entered is incorrect, please try again"
	MessageNoSecretKey          = "Server Error: No secret key found"
	MessageUserFetchSuccess     = "User fetched successfully"
	MessageInvalidRequest       = "Invalid request data"
)

// Сообщения ответов /product
const (
	MessageProductAdded       = "The product was added successfully"
	MessageProductAddError    = "Error adding the product, please try again"
	MessageProductsFetched    = "Products fetched successfully"
	MessageProductsFetchError = "Error fetching the products, please try again"
	MessageProductFetched     = "Product fetched successfully"
	MessageProductNotFound    = "The product you entered does not exist"
	MessageProductRemoved     = "Product deleted successfully"
	MessageProductRemoveError = "Error deleting the product, please try again"
	MessageProductUpdated     = "Product updated successfully"
	MessageProductUpdateError = "Error updating the product, please try again"
	MessageReviewAdded        = "Your review was successfully added"
	MessageReviewAddError     = "There was an error adding your review, please try again later"
	MessageInvalidProductID   = "Invalid product id"
)
