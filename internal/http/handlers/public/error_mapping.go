package public

import (
	"errors"

	"github.com/feira-next/internal/http/response"
	"github.com/feira-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var cartMutationErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidInput, code: response.CodeBadRequest, key: "error.cart_item_invalid"},
	{target: service.ErrItemNotFound, code: response.CodeBadRequest, key: "error.item_not_found"},
	{target: service.ErrProductNotFound, code: response.CodeBadRequest, key: "error.product_not_found"},
	{target: service.ErrProductInactive, code: response.CodeBadRequest, key: "error.product_not_found"},
	{target: service.ErrInsufficientStock, code: response.CodeBadRequest, key: "error.insufficient_stock"},
}

var couponErrorRules = []mappedHandlerError{
	{target: service.ErrCouponInvalid, code: response.CodeBadRequest, key: "error.coupon_invalid"},
	{target: service.ErrCouponExpired, code: response.CodeBadRequest, key: "error.coupon_expired"},
	{target: service.ErrCouponExhausted, code: response.CodeBadRequest, key: "error.coupon_usage_limit"},
	{target: service.ErrCouponMinAmount, code: response.CodeBadRequest, key: "error.coupon_min_amount"},
}

var checkoutExtraErrorRules = []mappedHandlerError{
	{target: service.ErrCartEmpty, code: response.CodeBadRequest, key: "error.cart_empty"},
	{target: service.ErrInvalidCEP, code: response.CodeBadRequest, key: "error.invalid_cep"},
	{target: service.ErrOutOfDeliveryArea, code: response.CodeBadRequest, key: "error.out_of_delivery_area"},
	{target: service.ErrInsufficientStock, code: response.CodeBadRequest, key: "error.insufficient_stock"},
	{target: service.ErrInvalidInput, code: response.CodeBadRequest, key: "error.bad_request"},
}

func respondCartMutationError(c *gin.Context, err error) {
	respondWithMappedError(c, err, cartMutationErrorRules, response.CodeInternal, "error.cart_update_failed")
}

func respondCheckoutError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(checkoutExtraErrorRules, couponErrorRules), response.CodeInternal, "error.checkout_failed")
}

func respondCouponError(c *gin.Context, err error) {
	respondWithMappedError(c, err, couponErrorRules, response.CodeInternal, "error.internal")
}
