package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Внутренние ошибки с векторами
	ErrEmptyVector        = fmt.Errorf("empty embedding vector")
	ErrVectorSizeMismatch = fmt.Errorf("embedding vector size mismatch")
	ErrEncoderUnavailable = fmt.Errorf("text encoder unavailable")

	// 404 Not Found
	ErrProductNotFound = fmt.Errorf("product not found")

	// 400 Bad Request
	ErrStatusBadRequest = fmt.Errorf("bad request")
	ErrASINRequired     = fmt.Errorf("asin is required")
	ErrTitleRequired    = fmt.Errorf("title is required")
	ErrDuplicateASIN    = fmt.Errorf("product with this asin already exists")
	ErrInvalidPrice     = fmt.Errorf("price is invalid")
	ErrPricePrecision   = fmt.Errorf("price must have at most 2 decimal places")
	ErrInvalidOrdering  = fmt.Errorf("unsupported ordering field")
	ErrQueryRequired    = fmt.Errorf("query parameter 'q' is required")
	ErrInvalidBody      = fmt.Errorf("request body is invalid")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("internal server error")

	// Конфигурация
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect env variable")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
