package postgres

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-pos-api/internal/domain"
)

const (
	tenantColumn = "tenant_id"
	// Postgres admite hasta 65535 parámetros por sentencia.
	maxParams = 65535
)

// Table describe una tabla con tenant_id y la lista blanca de columnas por operación.
type Table struct {
	Name       string
	Resource   string // nombre legible para mensajes de error
	Columns    []string
	Insertable []string
	Updatable  []string
	Counters   []string
	Searchable []string
	Keys       []string // clave natural (junto con tenant_id) para NextCounter
	OrderBy    Order
	Touch      bool // UPDATE también fija updated_at = now()
}

func contains(list []string, col string) bool {
	for _, c := range list {
		if c == col {
			return true
		}
	}
	return false
}

// Values columnas a escribir. tenant_id nunca se toma de aquí.
type Values map[string]any

// Order criterio de orden sobre una columna permitida.
type Order struct {
	Column string
	Desc   bool
}

// Filter predicado adicional. RefColumn compara contra otra columna de la misma fila.
type Filter struct {
	Column    string
	Op        string
	Value     any
	RefColumn string
}

// Eq atajo para column = value.
func Eq(column string, value any) Filter {
	return Filter{Column: column, Op: "=", Value: value}
}

var allowedOps = map[string]bool{
	"=": true, "<>": true, "<": true, "<=": true, ">": true, ">=": true,
	"IS NULL": true, "IS NOT NULL": true,
}

// ListQuery parámetros de List y Paginate. Order nil usa el orden por defecto de la tabla.
type ListQuery struct {
	Filters []Filter
	Order   *Order
	Limit   int
	Offset  int
}

// Gateway es el único punto de acceso a tablas con tenant_id. Cada sentencia que genera lleva
// tenant_id = $1 en el predicado y fuerza tenant_id en las escrituras.
// Update y Delete sobre ids de otro tenant afectan 0 filas sin error; Get devuelve NotFound.
type Gateway struct {
	q        Querier
	t        *Table
	tenantID string
}

// NewGateway ata la tabla a un tenant. q puede ser el pool o una transacción.
func NewGateway(q Querier, t *Table, tenantID string) *Gateway {
	return &Gateway{q: q, t: t, tenantID: tenantID}
}

// args acumula parámetros posicionales; $1 es siempre el tenant.
type args struct {
	vals []any
}

func newArgs(tenantID string) *args { return &args{vals: []any{tenantID}} }

func (a *args) add(v any) string {
	a.vals = append(a.vals, v)
	return "$" + strconv.Itoa(len(a.vals))
}

func (g *Gateway) invalid(format string, v ...any) error {
	return domain.Errorf(domain.ErrValidation, "%s: %s", g.t.Resource, fmt.Sprintf(format, v...))
}

func (g *Gateway) where(filters []Filter, a *args) (string, error) {
	var sb strings.Builder
	sb.WriteString(" WHERE ")
	sb.WriteString(tenantColumn)
	sb.WriteString(" = $1")
	for _, f := range filters {
		op := f.Op
		if op == "" {
			op = "="
		}
		if !contains(g.t.Columns, f.Column) || !allowedOps[op] {
			return "", g.invalid("filtro no permitido %q %s", f.Column, op)
		}
		sb.WriteString(" AND ")
		sb.WriteString(f.Column)
		sb.WriteString(" ")
		sb.WriteString(op)
		switch {
		case strings.HasPrefix(op, "IS "):
		case f.RefColumn != "":
			if !contains(g.t.Columns, f.RefColumn) {
				return "", g.invalid("columna no permitida %q", f.RefColumn)
			}
			sb.WriteString(" ")
			sb.WriteString(f.RefColumn)
		default:
			sb.WriteString(" ")
			sb.WriteString(a.add(f.Value))
		}
	}
	return sb.String(), nil
}

func (g *Gateway) orderBy(o *Order) (string, error) {
	ord := g.t.OrderBy
	if o != nil {
		ord = *o
	}
	if !contains(g.t.Columns, ord.Column) {
		return "", g.invalid("orden no permitido %q", ord.Column)
	}
	s := " ORDER BY " + ord.Column
	if ord.Desc {
		s += " DESC"
	}
	if ord.Column != "id" && contains(g.t.Columns, "id") {
		s += ", id"
	}
	return s, nil
}

func (g *Gateway) selectSQL(q ListQuery, forUpdate bool) (string, []any, error) {
	a := newArgs(g.tenantID)
	where, err := g.where(q.Filters, a)
	if err != nil {
		return "", nil, err
	}
	order, err := g.orderBy(q.Order)
	if err != nil {
		return "", nil, err
	}
	sql := "SELECT " + strings.Join(g.t.Columns, ", ") + " FROM " + g.t.Name + where + order
	if q.Limit > 0 {
		sql += " LIMIT " + a.add(q.Limit)
	}
	if q.Offset > 0 {
		sql += " OFFSET " + a.add(q.Offset)
	}
	if forUpdate {
		sql += " FOR UPDATE"
	}
	return sql, a.vals, nil
}

func (g *Gateway) get(ctx context.Context, id string, forUpdate bool, scan func(pgx.Row) error) error {
	sql, vals, err := g.selectSQL(ListQuery{Filters: []Filter{Eq("id", id)}}, forUpdate)
	if err != nil {
		return err
	}
	if err := scan(g.q.QueryRow(ctx, sql, vals...)); err != nil {
		return translate(err, "get "+g.t.Name, g.t.Resource)
	}
	return nil
}

// Get lee una fila por id. NotFound si no existe o pertenece a otro tenant.
func (g *Gateway) Get(ctx context.Context, id string, scan func(pgx.Row) error) error {
	return g.get(ctx, id, false, scan)
}

// GetForUpdate igual que Get pero bloquea la fila (usar dentro de una transacción).
func (g *Gateway) GetForUpdate(ctx context.Context, id string, scan func(pgx.Row) error) error {
	return g.get(ctx, id, true, scan)
}

// List ejecuta el SELECT y llama scan por cada fila.
func (g *Gateway) List(ctx context.Context, q ListQuery, scan func(pgx.Row) error) error {
	sql, vals, err := g.selectSQL(q, false)
	if err != nil {
		return err
	}
	return g.query(ctx, sql, vals, scan)
}

func (g *Gateway) query(ctx context.Context, sql string, vals []any, scan func(pgx.Row) error) error {
	rows, err := g.q.Query(ctx, sql, vals...)
	if err != nil {
		return translate(err, "list "+g.t.Name, g.t.Resource)
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("scan %s: %w", g.t.Name, err)
		}
	}
	if err := rows.Err(); err != nil {
		return translate(err, "list "+g.t.Name, g.t.Resource)
	}
	return nil
}

// escapeLike escapa los comodines de LIKE en un término de búsqueda.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func (g *Gateway) searchSQL(term string, limit int) (string, []any, error) {
	if len(g.t.Searchable) == 0 {
		return "", nil, g.invalid("la tabla no admite búsqueda")
	}
	a := newArgs(g.tenantID)
	p := a.add("%" + escapeLike(strings.TrimSpace(term)) + "%")
	conds := make([]string, len(g.t.Searchable))
	for i, c := range g.t.Searchable {
		conds[i] = c + " ILIKE " + p
	}
	order, err := g.orderBy(nil)
	if err != nil {
		return "", nil, err
	}
	sql := "SELECT " + strings.Join(g.t.Columns, ", ") + " FROM " + g.t.Name +
		" WHERE " + tenantColumn + " = $1 AND (" + strings.Join(conds, " OR ") + ")" + order
	if limit > 0 {
		sql += " LIMIT " + a.add(limit)
	}
	return sql, a.vals, nil
}

// Search busca term (ILIKE) en las columnas buscables de la tabla.
func (g *Gateway) Search(ctx context.Context, term string, limit int, scan func(pgx.Row) error) error {
	sql, vals, err := g.searchSQL(term, limit)
	if err != nil {
		return err
	}
	return g.query(ctx, sql, vals, scan)
}

func (g *Gateway) countSQL(filters []Filter) (string, []any, error) {
	a := newArgs(g.tenantID)
	where, err := g.where(filters, a)
	if err != nil {
		return "", nil, err
	}
	return "SELECT count(*) FROM " + g.t.Name + where, a.vals, nil
}

// Count cuenta filas del tenant que cumplen los filtros.
func (g *Gateway) Count(ctx context.Context, filters ...Filter) (int64, error) {
	sql, vals, err := g.countSQL(filters)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := g.q.QueryRow(ctx, sql, vals...).Scan(&n); err != nil {
		return 0, translate(err, "count "+g.t.Name, g.t.Resource)
	}
	return n, nil
}

// Paginate devuelve la página pedida y el total de filas que cumplen los filtros.
func (g *Gateway) Paginate(ctx context.Context, q ListQuery, scan func(pgx.Row) error) (int64, error) {
	total, err := g.Count(ctx, q.Filters...)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}
	return total, g.List(ctx, q, scan)
}

// writable quita tenant_id, valida contra la lista blanca y devuelve las columnas ordenadas.
func (g *Gateway) writable(v Values, allowed []string) ([]string, error) {
	cols := make([]string, 0, len(v))
	for c := range v {
		if c == tenantColumn {
			continue
		}
		if !contains(allowed, c) {
			return nil, g.invalid("columna no permitida %q", c)
		}
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols, nil
}

func (g *Gateway) insertSQL(rows []Values) (string, []any, error) {
	if len(rows) == 0 {
		return "", nil, g.invalid("nada que insertar")
	}
	cols, err := g.writable(rows[0], g.t.Insertable)
	if err != nil {
		return "", nil, err
	}
	if len(cols) == 0 {
		return "", nil, g.invalid("nada que insertar")
	}
	a := newArgs(g.tenantID)
	tuples := make([]string, len(rows))
	for i, row := range rows {
		rc, err := g.writable(row, g.t.Insertable)
		if err != nil {
			return "", nil, err
		}
		if strings.Join(rc, ",") != strings.Join(cols, ",") {
			return "", nil, g.invalid("fila %d con columnas distintas", i)
		}
		ph := make([]string, 0, len(cols)+1)
		ph = append(ph, "$1")
		for _, c := range cols {
			ph = append(ph, a.add(row[c]))
		}
		tuples[i] = "(" + strings.Join(ph, ", ") + ")"
	}
	sql := "INSERT INTO " + g.t.Name + " (" + tenantColumn + ", " + strings.Join(cols, ", ") + ") VALUES " +
		strings.Join(tuples, ", ")
	return sql, a.vals, nil
}

// Insert inserta una fila con tenant_id forzado al tenant del gateway.
func (g *Gateway) Insert(ctx context.Context, v Values) error {
	sql, vals, err := g.insertSQL([]Values{v})
	if err != nil {
		return err
	}
	if _, err := g.q.Exec(ctx, sql, vals...); err != nil {
		return translate(err, "insert "+g.t.Name, g.t.Resource)
	}
	return nil
}

// BatchInsert inserta varias filas con un INSERT multi-VALUES (en bloques si exceden el
// límite de parámetros). Todas las filas deben traer las mismas columnas.
func (g *Gateway) BatchInsert(ctx context.Context, rows []Values) error {
	if len(rows) == 0 {
		return nil
	}
	per := maxParams / (len(rows[0]) + 1)
	if per < 1 {
		per = 1
	}
	for start := 0; start < len(rows); start += per {
		end := start + per
		if end > len(rows) {
			end = len(rows)
		}
		sql, vals, err := g.insertSQL(rows[start:end])
		if err != nil {
			return err
		}
		if _, err := g.q.Exec(ctx, sql, vals...); err != nil {
			return translate(err, "batch insert "+g.t.Name, g.t.Resource)
		}
	}
	return nil
}

func (g *Gateway) updateSQL(id string, v Values) (string, []any, error) {
	cols, err := g.writable(v, g.t.Updatable)
	if err != nil {
		return "", nil, err
	}
	if len(cols) == 0 {
		return "", nil, g.invalid("sin campos para actualizar")
	}
	a := newArgs(g.tenantID)
	sets := make([]string, 0, len(cols)+1)
	for _, c := range cols {
		sets = append(sets, c+" = "+a.add(v[c]))
	}
	if g.t.Touch {
		sets = append(sets, "updated_at = now()")
	}
	sql := "UPDATE " + g.t.Name + " SET " + strings.Join(sets, ", ") +
		" WHERE " + tenantColumn + " = $1 AND id = " + a.add(id)
	return sql, a.vals, nil
}

// Update modifica columnas permitidas de una fila. Un tenant_id en v se descarta en silencio.
// Devuelve las filas afectadas: 0 si el id no existe o es de otro tenant.
func (g *Gateway) Update(ctx context.Context, id string, v Values) (int64, error) {
	sql, vals, err := g.updateSQL(id, v)
	if err != nil {
		return 0, err
	}
	tag, err := g.q.Exec(ctx, sql, vals...)
	if err != nil {
		return 0, translate(err, "update "+g.t.Name, g.t.Resource)
	}
	return tag.RowsAffected(), nil
}

func (g *Gateway) deleteSQL(id string) (string, []any) {
	return "DELETE FROM " + g.t.Name + " WHERE " + tenantColumn + " = $1 AND id = $2", []any{g.tenantID, id}
}

// Delete borra una fila. 0 filas afectadas si no existe o es de otro tenant.
func (g *Gateway) Delete(ctx context.Context, id string) (int64, error) {
	sql, vals := g.deleteSQL(id)
	tag, err := g.q.Exec(ctx, sql, vals...)
	if err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return 0, domain.Errorf(domain.ErrConflict, "%s tiene registros asociados", g.t.Resource)
		}
		return 0, translate(err, "delete "+g.t.Name, g.t.Resource)
	}
	return tag.RowsAffected(), nil
}

func (g *Gateway) incrementSQL(id, column string, delta decimal.Decimal) (string, []any, error) {
	if !contains(g.t.Counters, column) {
		return "", nil, g.invalid("columna no incrementable %q", column)
	}
	a := newArgs(g.tenantID)
	set := column + " = " + column + " + " + a.add(delta)
	if g.t.Touch {
		set += ", updated_at = now()"
	}
	sql := "UPDATE " + g.t.Name + " SET " + set + " WHERE " + tenantColumn + " = $1 AND id = " + a.add(id) +
		" RETURNING " + column
	return sql, a.vals, nil
}

// Increment suma delta a una columna numérica de forma atómica y devuelve el valor nuevo.
func (g *Gateway) Increment(ctx context.Context, id, column string, delta decimal.Decimal) (decimal.Decimal, error) {
	sql, vals, err := g.incrementSQL(id, column, delta)
	if err != nil {
		return decimal.Zero, err
	}
	var out decimal.Decimal
	if err := g.q.QueryRow(ctx, sql, vals...).Scan(&out); err != nil {
		return decimal.Zero, translate(err, "increment "+g.t.Name, g.t.Resource)
	}
	return out, nil
}

func (g *Gateway) counterSQL(keys Values, column string) (string, []any, error) {
	if !contains(g.t.Counters, column) {
		return "", nil, g.invalid("columna no incrementable %q", column)
	}
	if len(keys) != len(g.t.Keys) {
		return "", nil, g.invalid("clave incompleta")
	}
	a := newArgs(g.tenantID)
	ph := []string{"$1"}
	for _, k := range g.t.Keys {
		v, ok := keys[k]
		if !ok {
			return "", nil, g.invalid("falta la clave %q", k)
		}
		ph = append(ph, a.add(v))
	}
	conflict := tenantColumn + ", " + strings.Join(g.t.Keys, ", ")
	sql := "INSERT INTO " + g.t.Name + " (" + conflict + ", " + column + ") VALUES (" + strings.Join(ph, ", ") + ", 1)" +
		" ON CONFLICT (" + conflict + ") DO UPDATE SET " + column + " = " + g.t.Name + "." + column + " + 1" +
		" RETURNING " + column
	return sql, a.vals, nil
}

// NextCounter incrementa y devuelve un contador por (tenant, claves) con un upsert atómico.
// El primer valor es 1; llamadas concurrentes nunca obtienen el mismo número.
func (g *Gateway) NextCounter(ctx context.Context, keys Values, column string) (int64, error) {
	sql, vals, err := g.counterSQL(keys, column)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := g.q.QueryRow(ctx, sql, vals...).Scan(&n); err != nil {
		return 0, translate(err, "next counter "+g.t.Name, g.t.Resource)
	}
	return n, nil
}
