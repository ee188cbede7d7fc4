package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/court-reservation/internal/model"
)

// CustomerRepo encapsulates all database queries related to customers.
type CustomerRepo struct {
	db *sql.DB
}

// NewCustomerRepo constructs a CustomerRepo with the provided DB handle.
func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{db: db} }

const customerColumns = "id_cliente, nombre, apellido, telefono, email, fecha_registro"

func scanCustomer(row interface{ Scan(...any) error }) (*model.Customer, error) {
	var cl model.Customer
	var telefono, email sql.NullString
	if err := row.Scan(&cl.ID, &cl.Nombre, &cl.Apellido, &telefono, &email, &cl.FechaRegistro); err != nil {
		return nil, err
	}
	cl.Telefono = telefono.String
	cl.Email = email.String
	return &cl, nil
}

// Create inserts a new customer.  The registration date is set by the
// database; on success the ID and FechaRegistro fields are populated.
func (r *CustomerRepo) Create(ctx context.Context, cl *model.Customer) error {
	const qInsert = "INSERT INTO cliente (nombre, apellido, telefono, email) VALUES (?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, cl.Nombre, cl.Apellido, nullable(cl.Telefono), nullable(cl.Email))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	cl.ID = uint64(id)
	const qSelect = "SELECT fecha_registro FROM cliente WHERE id_cliente = ?"
	return r.db.QueryRowContext(ctx, qSelect, cl.ID).Scan(&cl.FechaRegistro)
}

// GetByID fetches a customer by its ID.  It returns ErrCustomerNotFound
// if no row exists.
func (r *CustomerRepo) GetByID(ctx context.Context, id uint64) (*model.Customer, error) {
	const q = "SELECT " + customerColumns + " FROM cliente WHERE id_cliente = ?"
	cl, err := scanCustomer(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, ErrCustomerNotFound
	}
	return cl, err
}

// List returns customers ordered by ID.  When q is non-empty the result
// is filtered to rows whose name, surname, phone or email contains q.
func (r *CustomerRepo) List(ctx context.Context, q string) ([]model.Customer, error) {
	query := "SELECT " + customerColumns + " FROM cliente"
	var args []any
	if q = strings.TrimSpace(q); q != "" {
		query += " WHERE nombre LIKE ? OR apellido LIKE ? OR telefono LIKE ? OR email LIKE ?"
		like := "%" + q + "%"
		args = append(args, like, like, like, like)
	}
	query += " ORDER BY id_cliente ASC"
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var customers []model.Customer
	for rows.Next() {
		cl, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, *cl)
	}
	return customers, rows.Err()
}

// Update replaces the mutable fields of a customer.
func (r *CustomerRepo) Update(ctx context.Context, cl *model.Customer) error {
	const q = "UPDATE cliente SET nombre = ?, apellido = ?, telefono = ?, email = ? WHERE id_cliente = ?"
	res, err := r.db.ExecContext(ctx, q, cl.Nombre, cl.Apellido, nullable(cl.Telefono), nullable(cl.Email), cl.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, cl.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a customer.  A 1451 error means bookings still
// reference the customer.
func (r *CustomerRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM cliente WHERE id_cliente = ?", id)
	if err != nil {
		if strings.Contains(err.Error(), "1451") {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

// nullable maps an empty string to NULL so optional contact fields do
// not store empty strings.
func nullable(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
