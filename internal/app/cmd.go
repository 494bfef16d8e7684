package app

// Command определяет режим запуска приложения.
type Command string

const (
	// CommandServe запускает API-сервер.
	CommandServe Command = "serve"
	// CommandWorker запускает воркер сверки рейтингов.
	CommandWorker Command = "worker"
	// CommandMigrate применяет миграции базы данных.
	CommandMigrate Command = "migrate"
	// CommandHealthcheck выполняет проверку работоспособности.
	// Используется как Docker-healthcheck в distroless-образе.
	CommandHealthcheck Command = "healthcheck"
)

// ParseCommand разбирает подкоманду из аргументов командной строки.
// Пустые аргументы и неизвестные подкоманды трактуются как serve.
func ParseCommand(args []string) Command {
	if len(args) == 0 {
		return CommandServe
	}

	switch args[0] {
	case "serve":
		return CommandServe
	case "worker":
		return CommandWorker
	case "migrate":
		return CommandMigrate
	case "healthcheck":
		return CommandHealthcheck
	default:
		return CommandServe
	}
}
