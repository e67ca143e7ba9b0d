package orders

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(n int64) *int64   { return &n }

func TestAssembleGroupsJoinedRows(t *testing.T) {
	rows := []lineRow{
		{OrderID: "1", WarehouseName: "W1", HighwayCost: "-100.0000", Product: strPtr("X"), Price: strPtr("10"), Quantity: intPtr(5)},
		{OrderID: "1", WarehouseName: "W1", HighwayCost: "-100.0000", Product: strPtr("Y"), Price: strPtr("20"), Quantity: intPtr(5)},
		{OrderID: "2", WarehouseName: "W2", HighwayCost: "15"},
	}
	list, err := assemble(rows)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "-100", list[0].HighwayCost.String())
	require.Len(t, list[0].Products, 2)
	require.Equal(t, "Y", list[0].Products[1].Product)
	require.NotNil(t, list[1].Products)
	require.Empty(t, list[1].Products)
}

func TestAssembleRejectsBadNumbers(t *testing.T) {
	_, err := assemble([]lineRow{{OrderID: "1", WarehouseName: "W1", HighwayCost: "abc"}})
	require.True(t, errors.Is(err, ErrInvalidInput))

	_, err = assemble([]lineRow{{OrderID: "1", WarehouseName: "W1", HighwayCost: "1", Product: strPtr("X"), Price: strPtr("1")}})
	require.True(t, errors.Is(err, ErrInvalidInput))
}

func TestMigrationURL(t *testing.T) {
	require.Equal(t, "pgx5://u:p@localhost:5432/db", migrationURL("postgres://u:p@localhost:5432/db"))
	require.Equal(t, "pgx5://localhost/db", migrationURL("postgresql://localhost/db"))
	require.Equal(t, "pgx5://localhost/db", migrationURL("pgx5://localhost/db"))
}
