package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultLocale 默认语言
	DefaultLocale = "en"
	// LocalePtBR 巴西葡萄牙语
	LocalePtBR = "pt-BR"
)

// ResolveLocale 解析请求语言（query 优先，其次 Accept-Language）
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale
	}
	if locale := normalizeLocale(c.Query("locale")); locale != "" {
		return locale
	}
	header := c.GetHeader("Accept-Language")
	for _, part := range strings.Split(header, ",") {
		if locale := normalizeLocale(strings.SplitN(part, ";", 2)[0]); locale != "" {
			return locale
		}
	}
	return DefaultLocale
}

// T 翻译消息 key，缺失时回退默认语言，再回退 key 本身
func T(locale, key string) string {
	if messages, ok := catalog[locale]; ok {
		if msg, ok := messages[key]; ok {
			return msg
		}
	}
	if msg, ok := catalog[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Sprintf 翻译消息 key 并按参数格式化
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}

func normalizeLocale(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	lower := strings.ToLower(trimmed)
	switch {
	case strings.HasPrefix(lower, "pt"):
		return LocalePtBR
	case strings.HasPrefix(lower, "en"):
		return DefaultLocale
	default:
		return ""
	}
}

var catalog = map[string]map[string]string{
	DefaultLocale: {
		"error.bad_request":            "invalid request",
		"error.unauthorized":           "unauthorized",
		"error.internal":               "internal error, please try again",
		"error.not_found":              "resource not found",
		"error.user_id_invalid":        "invalid user id",
		"error.user_id_type_invalid":   "invalid user id type",
		"error.admin_id_invalid":       "invalid admin id",
		"error.admin_id_type_invalid":  "invalid admin id type",
		"error.token_invalid":          "invalid or expired token",
		"error.auth_header_missing":    "authorization header missing",
		"error.auth_header_invalid":    "authorization header invalid",
		"error.jwt_secret_missing":     "server auth misconfigured",
		"error.login_failed":           "invalid credentials",
		"error.login_too_many":         "too many login attempts, try again later",
		"error.email_taken":            "email already registered",
		"error.cart_fetch_failed":      "could not load your cart",
		"error.cart_update_failed":     "could not update your cart",
		"error.cart_item_invalid":      "invalid cart item",
		"error.cart_empty":             "your cart is empty",
		"error.insufficient_stock":     "requested quantity exceeds available stock",
		"error.item_not_found":         "cart item no longer exists",
		"error.product_not_found":      "product no longer available",
		"error.coupon_invalid":         "invalid coupon",
		"error.coupon_not_found":       "coupon not found",
		"error.coupon_inactive":        "coupon is not active",
		"error.coupon_not_started":     "coupon is not valid yet",
		"error.coupon_expired":         "coupon has expired",
		"error.coupon_usage_limit":     "coupon usage limit reached",
		"error.coupon_min_amount":      "cart subtotal below coupon minimum",
		"error.checkout_failed":        "checkout failed, please try again",
		"error.invalid_cep":            "invalid postal code",
		"error.out_of_delivery_area":   "store does not deliver to this postal code",
		"error.order_not_found":        "order not found",
		"error.order_fetch_failed":     "could not load your orders",
		"error.profile_update_failed":  "could not update your profile",
		"error.forbidden":              "permission denied",
		"error.rate_limited":           "too many requests, try again in %d seconds",
		"error.rate_limit_unavailable": "service temporarily unavailable",
	},
	LocalePtBR: {
		"error.bad_request":           "requisição inválida",
		"error.unauthorized":          "não autorizado",
		"error.internal":              "erro interno, tente novamente",
		"error.not_found":             "recurso não encontrado",
		"error.token_invalid":         "token inválido ou expirado",
		"error.login_failed":          "credenciais inválidas",
		"error.login_too_many":        "muitas tentativas de login, tente mais tarde",
		"error.email_taken":           "e-mail já cadastrado",
		"error.cart_fetch_failed":     "não foi possível carregar seu carrinho",
		"error.cart_update_failed":    "não foi possível atualizar seu carrinho",
		"error.cart_item_invalid":     "item de carrinho inválido",
		"error.cart_empty":            "seu carrinho está vazio",
		"error.insufficient_stock":    "quantidade solicitada acima do estoque disponível",
		"error.item_not_found":        "item do carrinho não existe mais",
		"error.product_not_found":     "produto não está mais disponível",
		"error.coupon_invalid":        "cupom inválido",
		"error.coupon_not_found":      "cupom não encontrado",
		"error.coupon_inactive":       "cupom não está ativo",
		"error.coupon_not_started":    "cupom ainda não é válido",
		"error.coupon_expired":        "cupom expirado",
		"error.coupon_usage_limit":    "limite de uso do cupom atingido",
		"error.coupon_min_amount":     "subtotal abaixo do mínimo do cupom",
		"error.checkout_failed":       "falha ao finalizar a compra, tente novamente",
		"error.invalid_cep":           "CEP inválido",
		"error.out_of_delivery_area":  "a loja não entrega neste CEP",
		"error.order_not_found":       "pedido não encontrado",
		"error.order_fetch_failed":    "não foi possível carregar seus pedidos",
		"error.profile_update_failed": "não foi possível atualizar seu perfil",
		"error.forbidden":             "permissão negada",
		"error.rate_limited":          "muitas requisições, tente novamente em %d segundos",
	},
}
