package handler

import (
	"charityconnect/internal/usecase"
)

var (
	messageHandler *MessageHandler
	donorHandler   *DonorHandler
	charityHandler *CharityHandler
	profileHandler *ProfileHandler
	healthHandler  *HealthHandler
)

func Setup(
	messageUseCase *usecase.MessageUseCase,
	donorUseCase *usecase.DonorUseCase,
	charityUseCase *usecase.CharityUseCase,
	profileUseCase *usecase.ProfileUseCase,
) {
	messageHandler = NewMessageHandler(messageUseCase)
	donorHandler = NewDonorHandler(donorUseCase)
	charityHandler = NewCharityHandler(charityUseCase)
	profileHandler = NewProfileHandler(profileUseCase)
	healthHandler = NewHealthHandler()
}

func GetMessageHandler() *MessageHandler {
	return messageHandler
}

func GetDonorHandler() *DonorHandler {
	return donorHandler
}

func GetCharityHandler() *CharityHandler {
	return charityHandler
}

func GetProfileHandler() *ProfileHandler {
	return profileHandler
}

func GetHealthHandler() *HealthHandler {
	return healthHandler
}
