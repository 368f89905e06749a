package models

// Backend wire types. Field names and tags follow the storefront API
// contract; the client never invents fields the backend does not return.

type User struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	FullName  string `json:"full_name,omitempty"`
	IsActive  int    `json:"is_active"`
	CreatedAt string `json:"created_at"`
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name,omitempty"`
}

type Product struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Category    string  `json:"category,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// CartItem is local client state: a product snapshot plus a quantity.
// The cart holds at most one item per product id.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

type OrderItem struct {
	ProductID int     `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Name      string  `json:"name"`
}

type OrderRequest struct {
	Items           []OrderItem `json:"items"`
	ShippingAddress string      `json:"shipping_address"`
}

type Order struct {
	ID              int         `json:"id"`
	UserID          int         `json:"user_id"`
	TotalAmount     float64     `json:"total_amount"`
	Status          string      `json:"status"`
	ShippingAddress string      `json:"shipping_address"`
	Items           []OrderItem `json:"items"`
	CreatedAt       string      `json:"created_at"`
	UpdatedAt       string      `json:"updated_at"`
}

// CartTotal sums quantity*price over the lines. Shipping is always free,
// so this is both the subtotal and the final total.
func CartTotal(cart []CartItem) float64 {
	var total float64
	for _, it := range cart {
		total += it.Product.Price * float64(it.Quantity)
	}
	return total
}

// OrderItemsFromCart snapshots the cart into order lines, capturing each
// line's current price and name at submission time.
func OrderItemsFromCart(cart []CartItem) []OrderItem {
	items := make([]OrderItem, 0, len(cart))
	for _, it := range cart {
		items = append(items, OrderItem{
			ProductID: it.Product.ID,
			Quantity:  it.Quantity,
			Price:     it.Product.Price,
			Name:      it.Product.Name,
		})
	}
	return items
}
