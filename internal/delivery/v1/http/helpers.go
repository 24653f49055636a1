package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/DRSN-tech/catalog-service/pkg/e"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrProductNotFound):
		return http.StatusNotFound, e.ErrProductNotFound.Error()
	case errors.Is(err, e.ErrASINRequired):
		return http.StatusBadRequest, e.ErrASINRequired.Error()
	case errors.Is(err, e.ErrTitleRequired):
		return http.StatusBadRequest, e.ErrTitleRequired.Error()
	case errors.Is(err, e.ErrDuplicateASIN):
		return http.StatusBadRequest, e.ErrDuplicateASIN.Error()
	case errors.Is(err, e.ErrInvalidPrice):
		return http.StatusBadRequest, e.ErrInvalidPrice.Error()
	case errors.Is(err, e.ErrPricePrecision):
		return http.StatusBadRequest, e.ErrPricePrecision.Error()
	case errors.Is(err, e.ErrInvalidOrdering):
		return http.StatusBadRequest, e.ErrInvalidOrdering.Error()
	case errors.Is(err, e.ErrQueryRequired):
		return http.StatusBadRequest, e.ErrQueryRequired.Error()
	case errors.Is(err, e.ErrInvalidBody):
		return http.StatusBadRequest, e.ErrInvalidBody.Error()
	case errors.Is(err, e.ErrStatusBadRequest):
		return http.StatusBadRequest, e.ErrStatusBadRequest.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, e.ErrStatusBadRequest
	}
	return id, nil
}

// parsePrice валидирует цену из тела запроса:
// некорректный формат, отрицательное значение и переполнение — ErrInvalidPrice,
// больше двух знаков после запятой — ErrPricePrecision.
func parsePrice(n *json.Number) (*float64, error) {
	if n == nil {
		return nil, nil
	}

	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return nil, e.ErrInvalidPrice
	}

	if d.LessThan(decimal.Zero) {
		return nil, e.ErrInvalidPrice
	}

	maxPrice := decimal.NewFromInt(1_000_000_000)
	if d.GreaterThan(maxPrice) {
		return nil, e.ErrInvalidPrice
	}

	if d.Exponent() < -2 {
		return nil, e.ErrPricePrecision
	}

	price, _ := d.Float64()
	return &price, nil
}

// parsePagination читает page и page_size. Некорректные значения
// заменяются значениями по умолчанию, нормализация границ — в usecase.
func parsePagination(q url.Values) (int, int) {
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))
	return page, pageSize
}

// pageURL строит ссылку на соседнюю страницу текущего запроса или nil,
// если страницы не существует.
func pageURL(r *http.Request, page int, totalCount int64, pageSize int) *string {
	if page < 1 {
		return nil
	}

	lastPage := (totalCount + int64(pageSize) - 1) / int64(pageSize)
	if int64(page) > lastPage {
		return nil
	}

	u := *r.URL
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()

	s := u.String()
	return &s
}
