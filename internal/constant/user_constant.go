package constant

const (
	UserRoleUser  = "user"
	UserRoleAdmin = "admin"
)

const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// Generator providers selectable via provider configs.
const (
	GeneratorProviderMock   = "mock"
	GeneratorProviderOpenAI = "openai"
)
