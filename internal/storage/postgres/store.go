// Package postgres is the PostgreSQL entity store, backed by a pgx connection
// pool. Schema migrations are embedded and applied at startup.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"food-order-system/internal/apperr"
	"food-order-system/internal/config"
	"food-order-system/internal/logger"
	"food-order-system/internal/models"
	"food-order-system/internal/storage"
)

const uniqueViolation = "23505"

// Store implements storage.Store on top of PostgreSQL.
type Store struct {
	pool   *pgxpool.Pool
	logger *logger.Logger
}

var _ storage.Store = (*Store)(nil)

// New connects to the database with retries and runs pending migrations.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Store, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute

	var pool *pgxpool.Pool
	maxRetries := 5
	for i := 0; i < maxRetries; i++ {
		pool, err = pgxpool.NewWithConfig(ctx, poolConfig)
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = pool.Ping(pingCtx)
			cancel()
			if err == nil {
				break
			}
			pool.Close()
		}

		if i < maxRetries-1 {
			waitTime := time.Duration(i+1) * 2 * time.Second
			log.Error("db_connection_failed",
				"startup",
				fmt.Sprintf("Failed to connect to database, retrying in %v", waitTime),
				err, nil)
			time.Sleep(waitTime)
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
	}

	s := &Store{pool: pool, logger: log}
	if err := s.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// UserStore implementation ---------------------------------------------------

func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	err := s.pool.QueryRow(ctx, insertUserSQL,
		user.Username, user.PasswordHash, user.Name, user.Email, user.Admin,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return models.User{}, apperr.FieldValidation("username", "is already taken")
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

func (s *Store) GetUser(ctx context.Context, id int) (models.User, error) {
	return s.scanUser(s.pool.QueryRow(ctx, getUserSQL, id), fmt.Sprintf("user %d", id))
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	return s.scanUser(s.pool.QueryRow(ctx, getUserByUsernameSQL, username), "user")
}

func (s *Store) scanUser(row pgx.Row, what string) (models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Name, &user.Email, &user.Admin, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, fmt.Errorf("%s: %w", what, apperr.ErrNotFound)
		}
		return models.User{}, fmt.Errorf("query user: %w", err)
	}
	return user, nil
}

// MenuStore implementation ---------------------------------------------------

func (s *Store) CreateMenuItem(ctx context.Context, item models.MenuItem) (models.MenuItem, error) {
	nutrition, err := marshalNutrition(item.Nutrition)
	if err != nil {
		return models.MenuItem{}, err
	}

	err = s.pool.QueryRow(ctx, insertMenuItemSQL,
		item.Name, item.Description, item.Price, item.Category,
		item.Rating, item.Popular, item.DietaryTags, nutrition,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return models.MenuItem{}, fmt.Errorf("insert menu item: %w", err)
	}
	return item, nil
}

func (s *Store) GetMenuItem(ctx context.Context, id int) (models.MenuItem, error) {
	return scanMenuItem(s.pool.QueryRow(ctx, getMenuItemSQL, id), id)
}

func (s *Store) ListMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	rows, err := s.pool.Query(ctx, listMenuItemsSQL)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	defer rows.Close()

	result := make([]models.MenuItem, 0)
	for rows.Next() {
		item, err := scanMenuItem(rows, 0)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (s *Store) UpdateMenuItem(ctx context.Context, item models.MenuItem) (models.MenuItem, error) {
	nutrition, err := marshalNutrition(item.Nutrition)
	if err != nil {
		return models.MenuItem{}, err
	}

	err = s.pool.QueryRow(ctx, updateMenuItemSQL,
		item.ID, item.Name, item.Description, item.Price, item.Category,
		item.Rating, item.Popular, item.DietaryTags, nutrition,
	).Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.MenuItem{}, apperr.NotFound("menu item", item.ID)
		}
		return models.MenuItem{}, fmt.Errorf("update menu item: %w", err)
	}
	return item, nil
}

func (s *Store) DeleteMenuItem(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, deleteMenuItemSQL, id)
	if err != nil {
		return fmt.Errorf("delete menu item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("menu item", id)
	}
	return nil
}

// CartStore implementation ---------------------------------------------------

func (s *Store) CreateCartLine(ctx context.Context, line models.CartLine) (models.CartLine, error) {
	err := s.pool.QueryRow(ctx, insertCartLineSQL,
		line.UserID, line.MenuItemID, line.Quantity, line.Addons, line.Instructions,
	).Scan(&line.ID, &line.CreatedAt, &line.UpdatedAt)
	if err != nil {
		return models.CartLine{}, fmt.Errorf("insert cart line: %w", err)
	}
	return line, nil
}

func (s *Store) GetCartLine(ctx context.Context, id int) (models.CartLine, error) {
	return scanCartLine(s.pool.QueryRow(ctx, getCartLineSQL, id))
}

func (s *Store) GetCartLineByUserAndItem(ctx context.Context, userID, menuItemID int) (models.CartLine, error) {
	return scanCartLine(s.pool.QueryRow(ctx, getCartLineByUserAndItemSQL, userID, menuItemID))
}

func (s *Store) ListCartLines(ctx context.Context, userID int) ([]models.CartLine, error) {
	rows, err := s.pool.Query(ctx, listCartLinesSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart lines: %w", err)
	}
	defer rows.Close()

	result := make([]models.CartLine, 0)
	for rows.Next() {
		line, err := scanCartLine(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, line)
	}
	return result, rows.Err()
}

func (s *Store) UpdateCartLine(ctx context.Context, line models.CartLine) (models.CartLine, error) {
	err := s.pool.QueryRow(ctx, updateCartLineSQL,
		line.ID, line.Quantity, line.Addons, line.Instructions,
	).Scan(&line.UserID, &line.MenuItemID, &line.CreatedAt, &line.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.CartLine{}, apperr.NotFound("cart line", line.ID)
		}
		return models.CartLine{}, fmt.Errorf("update cart line: %w", err)
	}
	return line, nil
}

func (s *Store) DeleteCartLine(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, deleteCartLineSQL, id)
	if err != nil {
		return fmt.Errorf("delete cart line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("cart line", id)
	}
	return nil
}

func (s *Store) ClearCart(ctx context.Context, userID int) error {
	_, err := s.pool.Exec(ctx, clearCartSQL, userID)
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// OrderStore implementation --------------------------------------------------

func (s *Store) PlaceOrder(ctx context.Context, order models.Order) (models.Order, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return models.Order{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, insertOrderSQL,
		order.UserID, order.Status, order.Total, order.Address, order.PaymentRef,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return models.Order{}, fmt.Errorf("insert order: %w", err)
	}

	for _, item := range order.Items {
		if _, err := tx.Exec(ctx, insertOrderItemSQL, order.ID, item.MenuItemID, item.Quantity); err != nil {
			return models.Order{}, fmt.Errorf("insert order item: %w", err)
		}
	}

	if _, err := tx.Exec(ctx, insertOrderStatusLogSQL, order.ID, order.Status, "system"); err != nil {
		return models.Order{}, fmt.Errorf("insert status log: %w", err)
	}

	if _, err := tx.Exec(ctx, clearCartSQL, order.UserID); err != nil {
		return models.Order{}, fmt.Errorf("clear cart: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Order{}, fmt.Errorf("commit order: %w", err)
	}
	return order, nil
}

func (s *Store) GetOrder(ctx context.Context, id int) (models.Order, error) {
	order, err := scanOrder(s.pool.QueryRow(ctx, getOrderSQL, id), id)
	if err != nil {
		return models.Order{}, err
	}
	if err := s.loadOrderItems(ctx, &order); err != nil {
		return models.Order{}, err
	}
	return order, nil
}

func (s *Store) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.listOrders(ctx, listOrdersSQL)
}

func (s *Store) ListOrdersByUser(ctx context.Context, userID int) ([]models.Order, error) {
	return s.listOrders(ctx, listOrdersByUserSQL, userID)
}

func (s *Store) listOrders(ctx context.Context, sql string, args ...any) ([]models.Order, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	result := make([]models.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows, 0)
		if err != nil {
			return nil, err
		}
		result = append(result, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		if err := s.loadOrderItems(ctx, &result[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (s *Store) loadOrderItems(ctx context.Context, order *models.Order) error {
	rows, err := s.pool.Query(ctx, listOrderItemsSQL, order.ID)
	if err != nil {
		return fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	order.Items = make([]models.OrderItem, 0)
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.MenuItemID, &item.Quantity); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}
	return rows.Err()
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id int, status models.OrderStatus, changedBy string) (models.Order, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return models.Order{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	order := models.Order{ID: id, Status: status}
	err = tx.QueryRow(ctx, updateOrderStatusSQL, id, status).Scan(
		&order.UserID, &order.Total, &order.Address, &order.PaymentRef,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Order{}, apperr.NotFound("order", id)
		}
		return models.Order{}, fmt.Errorf("update order status: %w", err)
	}

	if _, err := tx.Exec(ctx, insertOrderStatusLogSQL, id, status, changedBy); err != nil {
		return models.Order{}, fmt.Errorf("insert status log: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Order{}, fmt.Errorf("commit status update: %w", err)
	}

	if err := s.loadOrderItems(ctx, &order); err != nil {
		return models.Order{}, err
	}
	return order, nil
}

func (s *Store) ListStatusHistory(ctx context.Context, orderID int) ([]models.StatusHistoryEntry, error) {
	if _, err := s.GetOrder(ctx, orderID); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, listStatusHistorySQL, orderID)
	if err != nil {
		return nil, fmt.Errorf("list status history: %w", err)
	}
	defer rows.Close()

	var history []models.StatusHistoryEntry
	for rows.Next() {
		var entry models.StatusHistoryEntry
		if err := rows.Scan(&entry.Status, &entry.ChangedBy, &entry.ChangedAt); err != nil {
			return nil, fmt.Errorf("scan status history: %w", err)
		}
		history = append(history, entry)
	}
	return history, rows.Err()
}

// Helpers --------------------------------------------------------------------

func scanMenuItem(row pgx.Row, id int) (models.MenuItem, error) {
	var item models.MenuItem
	var nutrition []byte
	err := row.Scan(
		&item.ID, &item.Name, &item.Description, &item.Price, &item.Category,
		&item.Rating, &item.Popular, &item.DietaryTags, &nutrition,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.MenuItem{}, apperr.NotFound("menu item", id)
		}
		return models.MenuItem{}, fmt.Errorf("scan menu item: %w", err)
	}

	if len(nutrition) > 0 {
		item.Nutrition = &models.NutritionInfo{}
		if err := json.Unmarshal(nutrition, item.Nutrition); err != nil {
			return models.MenuItem{}, fmt.Errorf("decode nutrition: %w", err)
		}
	}
	return item, nil
}

func scanCartLine(row pgx.Row) (models.CartLine, error) {
	var line models.CartLine
	err := row.Scan(
		&line.ID, &line.UserID, &line.MenuItemID, &line.Quantity,
		&line.Addons, &line.Instructions, &line.CreatedAt, &line.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.CartLine{}, fmt.Errorf("cart line: %w", apperr.ErrNotFound)
		}
		return models.CartLine{}, fmt.Errorf("scan cart line: %w", err)
	}
	return line, nil
}

func scanOrder(row pgx.Row, id int) (models.Order, error) {
	var order models.Order
	err := row.Scan(
		&order.ID, &order.UserID, &order.Status, &order.Total,
		&order.Address, &order.PaymentRef, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Order{}, apperr.NotFound("order", id)
		}
		return models.Order{}, fmt.Errorf("scan order: %w", err)
	}
	return order, nil
}

func marshalNutrition(n *models.NutritionInfo) ([]byte, error) {
	if n == nil {
		return nil, nil
	}
	data, err := json.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("encode nutrition: %w", err)
	}
	return data, nil
}
