package mapping

import "database/sql"

func ValueToSQLNullString(v string) sql.NullString {
	if v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}

func SQLNullStringToValue(v sql.NullString) string {
	if !v.Valid {
		return ""
	}
	return v.String
}

func PointerToSQLNullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func SQLNullInt64ToPointer(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	val := v.Int64
	return &val
}

func Pointer[T any](v T) *T {
	return &v
}
