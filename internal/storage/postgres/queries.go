package postgres

// User queries
const (
	insertUserSQL = `
		INSERT INTO users (username, password_hash, name, email, admin)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	getUserSQL = `
		SELECT id, username, password_hash, name, email, admin, created_at
		FROM users WHERE id = $1`

	getUserByUsernameSQL = `
		SELECT id, username, password_hash, name, email, admin, created_at
		FROM users WHERE lower(username) = lower($1)`
)

// Menu queries
const (
	insertMenuItemSQL = `
		INSERT INTO menu_items (name, description, price, category, rating, popular, dietary_tags, nutrition)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	getMenuItemSQL = `
		SELECT id, name, description, price, category, rating, popular, dietary_tags, nutrition, created_at, updated_at
		FROM menu_items WHERE id = $1`

	listMenuItemsSQL = `
		SELECT id, name, description, price, category, rating, popular, dietary_tags, nutrition, created_at, updated_at
		FROM menu_items ORDER BY id ASC`

	updateMenuItemSQL = `
		UPDATE menu_items
		SET name = $2, description = $3, price = $4, category = $5, rating = $6,
			popular = $7, dietary_tags = $8, nutrition = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`

	deleteMenuItemSQL = `DELETE FROM menu_items WHERE id = $1`
)

// Cart queries
const (
	insertCartLineSQL = `
		INSERT INTO cart_lines (user_id, menu_item_id, quantity, addons, instructions)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	getCartLineSQL = `
		SELECT id, user_id, menu_item_id, quantity, addons, instructions, created_at, updated_at
		FROM cart_lines WHERE id = $1`

	getCartLineByUserAndItemSQL = `
		SELECT id, user_id, menu_item_id, quantity, addons, instructions, created_at, updated_at
		FROM cart_lines WHERE user_id = $1 AND menu_item_id = $2`

	listCartLinesSQL = `
		SELECT id, user_id, menu_item_id, quantity, addons, instructions, created_at, updated_at
		FROM cart_lines WHERE user_id = $1 ORDER BY id ASC`

	updateCartLineSQL = `
		UPDATE cart_lines
		SET quantity = $2, addons = $3, instructions = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING user_id, menu_item_id, created_at, updated_at`

	deleteCartLineSQL = `DELETE FROM cart_lines WHERE id = $1`

	clearCartSQL = `DELETE FROM cart_lines WHERE user_id = $1`
)

// Order queries
const (
	insertOrderSQL = `
		INSERT INTO orders (user_id, status, total, address, payment_ref)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	insertOrderItemSQL = `
		INSERT INTO order_items (order_id, menu_item_id, quantity)
		VALUES ($1, $2, $3)`

	insertOrderStatusLogSQL = `
		INSERT INTO order_status_log (order_id, status, changed_by)
		VALUES ($1, $2, $3)`

	getOrderSQL = `
		SELECT id, user_id, status, total, address, payment_ref, created_at, updated_at
		FROM orders WHERE id = $1`

	listOrdersSQL = `
		SELECT id, user_id, status, total, address, payment_ref, created_at, updated_at
		FROM orders ORDER BY id ASC`

	listOrdersByUserSQL = `
		SELECT id, user_id, status, total, address, payment_ref, created_at, updated_at
		FROM orders WHERE user_id = $1 ORDER BY id ASC`

	listOrderItemsSQL = `
		SELECT menu_item_id, quantity
		FROM order_items WHERE order_id = $1 ORDER BY id ASC`

	updateOrderStatusSQL = `
		UPDATE orders SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING user_id, total, address, payment_ref, created_at, updated_at`

	listStatusHistorySQL = `
		SELECT status, changed_by, changed_at
		FROM order_status_log
		WHERE order_id = $1
		ORDER BY changed_at ASC, id ASC`
)
