package postgres

// Definiciones de las tablas con tenant_id. Solo las columnas listadas aquí pueden
// aparecer en un SELECT, INSERT, UPDATE o filtro generado por el Gateway.

var productsTable = &Table{
	Name:       "products",
	Resource:   "producto",
	Columns:    []string{"id", "tenant_id", "sku", "name", "cost_price", "sale_price", "stock", "min_stock", "created_at", "updated_at"},
	Insertable: []string{"id", "sku", "name", "cost_price", "sale_price", "stock", "min_stock", "created_at", "updated_at"},
	Updatable:  []string{"sku", "name", "cost_price", "sale_price", "min_stock"},
	Counters:   []string{"stock"},
	Searchable: []string{"name", "sku"},
	OrderBy:    Order{Column: "name"},
	Touch:      true,
}

var customersTable = &Table{
	Name:       "customers",
	Resource:   "cliente",
	Columns:    []string{"id", "tenant_id", "name", "document", "email", "phone", "loyalty_points", "credit_limit", "current_debt", "created_at", "updated_at"},
	Insertable: []string{"id", "name", "document", "email", "phone", "loyalty_points", "credit_limit", "current_debt", "created_at", "updated_at"},
	Updatable:  []string{"name", "document", "email", "phone", "credit_limit", "current_debt", "loyalty_points"},
	Searchable: []string{"name", "document", "email"},
	OrderBy:    Order{Column: "name"},
	Touch:      true,
}

var salesTable = &Table{
	Name:     "sales",
	Resource: "venta",
	Columns: []string{"id", "tenant_id", "sale_number", "customer_id", "cashier_id", "total", "payment_method", "status",
		"payment_status", "amount_paid", "amount_pending", "due_date", "points_earned", "created_at", "updated_at"},
	Insertable: []string{"id", "sale_number", "customer_id", "cashier_id", "total", "payment_method", "status",
		"payment_status", "amount_paid", "amount_pending", "due_date", "points_earned", "created_at", "updated_at"},
	Updatable:  []string{"status", "payment_status", "amount_paid", "amount_pending"},
	Searchable: []string{"sale_number"},
	OrderBy:    Order{Column: "created_at", Desc: true},
	Touch:      true,
}

var saleItemsTable = &Table{
	Name:       "sale_items",
	Resource:   "línea de venta",
	Columns:    []string{"id", "sale_id", "tenant_id", "product_id", "quantity", "unit_price", "subtotal"},
	Insertable: []string{"id", "sale_id", "product_id", "quantity", "unit_price", "subtotal"},
	OrderBy:    Order{Column: "id"},
}

var creditPaymentsTable = &Table{
	Name:       "credit_payments",
	Resource:   "abono",
	Columns:    []string{"id", "tenant_id", "sale_id", "customer_id", "amount", "payment_method", "cashier_id", "notes", "created_at"},
	Insertable: []string{"id", "sale_id", "customer_id", "amount", "payment_method", "cashier_id", "notes", "created_at"},
	OrderBy:    Order{Column: "created_at"},
}

var saleSequencesTable = &Table{
	Name:       "sale_sequences",
	Resource:   "consecutivo",
	Columns:    []string{"tenant_id", "prefix", "day", "last_value"},
	Insertable: []string{"prefix", "day"},
	Counters:   []string{"last_value"},
	Keys:       []string{"prefix", "day"},
	OrderBy:    Order{Column: "day"},
}
