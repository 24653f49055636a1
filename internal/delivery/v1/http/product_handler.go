package http

import (
	"encoding/json"
	"net/http"

	"github.com/DRSN-tech/catalog-service/internal/usecase"
	"github.com/DRSN-tech/catalog-service/pkg/e"
	"github.com/DRSN-tech/catalog-service/pkg/logger"
)

type ProductHandler struct {
	productUsecase usecase.ProductUC
	logger         logger.Logger
}

func NewProductHandler(productUsecase usecase.ProductUC, logger logger.Logger) *ProductHandler {
	return &ProductHandler{productUsecase: productUsecase, logger: logger}
}

// createProduct
//
//	@Summary		Создание товара
//	@Description	Создает товар и ставит в очередь генерацию вектора
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			product	body		ProductRequest	true	"Товар"
//	@Success		201		{object}	ProductResponse	"Создано"
//	@Failure		400		{object}	ErrorResponse	"Ошибка валидации"
//	@Router			/products [post]
func (p *ProductHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	body, err := decodeProductRequest(r)
	if err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	price, err := parsePrice(body.Price)
	if err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	req := &usecase.CreateProductReq{
		ASIN:        deref(body.ASIN),
		Title:       deref(body.Title),
		Description: deref(body.Description),
		Category:    deref(body.Category),
		Brand:       deref(body.Brand),
		Price:       price,
	}

	info, err := p.productUsecase.CreateProduct(r.Context(), req)
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toProductResponse(info))
}

// getProduct
//
//	@Summary	Получение товара
//	@Tags		products
//	@Produce	json
//	@Param		id	path		int				true	"ID товара"
//	@Success	200	{object}	ProductResponse
//	@Failure	404	{object}	ErrorResponse	"Товар не найден"
//	@Router		/products/{id} [get]
func (p *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	info, err := p.productUsecase.GetProduct(r.Context(), id)
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(info))
}

// listProducts
//
//	@Summary		Листинг каталога
//	@Description	Фильтрация по категории, подстрочный поиск и сортировка
//	@Tags			products
//	@Produce		json
//	@Param			category	query		string	false	"Точное совпадение категории"
//	@Param			search		query		string	false	"Подстрока в названии или описании"
//	@Param			ordering	query		string	false	"price, -price, created_at, -created_at"
//	@Param			page		query		int		false	"Номер страницы"
//	@Param			page_size	query		int		false	"Размер страницы (максимум 100)"
//	@Success		200			{object}	ListResponse
//	@Failure		400			{object}	ErrorResponse	"Неизвестное поле сортировки"
//	@Router			/products [get]
func (p *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, pageSize := parsePagination(q)

	req := &usecase.ListProductsReq{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Ordering: q.Get("ordering"),
		Page:     page,
		PageSize: pageSize,
	}

	res, err := p.productUsecase.ListProducts(r.Context(), req)
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, ListResponse{
		Count:    res.Count,
		Next:     pageURL(r, req.Page+1, res.Count, req.PageSize),
		Previous: pageURL(r, req.Page-1, res.Count, req.PageSize),
		Results:  toProductResponses(res.Products),
	})
}

// updateProduct
//
//	@Summary		Обновление товара
//	@Description	Отсутствующие в теле поля не изменяются. Изменение названия или описания переобсчитывает вектор.
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int				true	"ID товара"
//	@Param			product	body		ProductRequest	true	"Изменяемые поля"
//	@Success		200		{object}	ProductResponse
//	@Failure		400		{object}	ErrorResponse	"Ошибка валидации"
//	@Failure		404		{object}	ErrorResponse	"Товар не найден"
//	@Router			/products/{id} [patch]
func (p *ProductHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	body, err := decodeProductRequest(r)
	if err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	price, err := parsePrice(body.Price)
	if err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	req := &usecase.UpdateProductReq{
		ID:          id,
		Title:       body.Title,
		Description: body.Description,
		Category:    body.Category,
		Brand:       body.Brand,
		Price:       price,
	}

	info, err := p.productUsecase.UpdateProduct(r.Context(), req)
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(info))
}

// deleteProduct
//
//	@Summary	Удаление товара
//	@Tags		products
//	@Param		id	path	int	true	"ID товара"
//	@Success	204	"Удалено"
//	@Failure	404	{object}	ErrorResponse	"Товар не найден"
//	@Router		/products/{id} [delete]
func (p *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := p.productUsecase.DeleteProduct(r.Context(), id); err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func decodeProductRequest(r *http.Request) (*ProductRequest, error) {
	const maxBodySize = 1 << 20

	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodySize))
	decoder.UseNumber()

	var body ProductRequest
	if err := decoder.Decode(&body); err != nil {
		return nil, e.ErrInvalidBody
	}

	return &body, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
