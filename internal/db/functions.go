package db

import (
	"database/sql/driver"
	"fmt"

	"modernc.org/sqlite"

	"github.com/scmmishra/inorder/internal/models"
)

// fold(x) is models.Fold inside SQL. sqlite's own LIKE only folds ASCII, so
// search compares fold(column) against an already-folded pattern.
func init() {
	if err := sqlite.RegisterDeterministicScalarFunction("fold", 1, foldValue); err != nil {
		panic(fmt.Sprintf("register fold: %v", err))
	}
}

func foldValue(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return models.Fold(v), nil
	case []byte:
		return models.Fold(string(v)), nil
	default:
		return v, nil
	}
}
