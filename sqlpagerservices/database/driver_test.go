package database_test

import (
	"database/sql"
	"fmt"
	"log/slog"
	"slices"
	"testing"

	"github.com/lunagic/sqlpager/pager"
	"github.com/lunagic/sqlpager/sqlpagerservices/database"
	"github.com/lunagic/sqlpager/sqlpagertools"
	"gotest.tools/v3/assert"
)

const accountCount = 25

type AccountSettings struct {
	FavoriteColor string
}

type Account struct {
	ID       int64           `db:"id,primaryKey"`
	Email    string          `db:"email"`
	Age      int             `db:"age"`
	Settings AccountSettings `db:"settings"`
}

func (e Account) TableStructure() database.Table {
	return database.Table{
		Name: "account",
	}
}

func seedAccounts(db *sql.DB) error {
	if _, err := db.Exec("CREATE TABLE account (id INT PRIMARY KEY, email VARCHAR(255) NOT NULL, age INT NOT NULL, settings VARCHAR(255) NOT NULL)"); err != nil {
		return err
	}

	for i := 1; i <= accountCount; i++ {
		if _, err := db.Exec(fmt.Sprintf(
			`INSERT INTO account (id, email, age, settings) VALUES (%d, 'user-%d@example.com', %d, '{"FavoriteColor":"color-%d"}')`,
			i, i, 20+i, i,
		)); err != nil {
			return err
		}
	}

	return nil
}

// accountIDs sorts the ids of a page. Paged SQL Server results carry no outer
// ORDER BY, so only the membership of a page is stable.
func accountIDs(accounts []Account) []int64 {
	ids := sqlpagertools.Map(accounts, func(account Account) int64 {
		return account.ID
	})
	slices.Sort(ids)

	return ids
}

func testSuite(t *testing.T, driver database.Driver) {
	service, err := database.New(
		driver,
		database.WithPostConnectFunc(seedAccounts),
		database.WithLogger(slog.Default()),
	)
	assert.NilError(t, err)
	t.Cleanup(func() {
		_ = service.Close()
	})

	accountRepo := database.NewRepository[Account](service)

	{ // Every row comes back without a limit
		accounts, err := accountRepo.SelectMultiple(t.Context())
		assert.NilError(t, err)
		assert.Equal(t, len(accounts), accountCount)
	}

	{ // The first page is ordered by the primary key
		accounts, err := accountRepo.SelectPage(t.Context(), 0, 10)
		assert.NilError(t, err)
		assert.DeepEqual(t, accountIDs(accounts), []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	}

	{ // The last page is short
		accounts, err := accountRepo.SelectPage(t.Context(), 20, 10)
		assert.NilError(t, err)
		assert.DeepEqual(t, accountIDs(accounts), []int64{21, 22, 23, 24, 25})
	}

	{ // Past the end is empty
		accounts, err := accountRepo.SelectPage(t.Context(), 100, 10)
		assert.NilError(t, err)
		assert.Equal(t, len(accounts), 0)
	}

	{ // Explicit ordering wins over the keys
		accounts, err := accountRepo.SelectPage(
			t.Context(),
			5,
			3,
			database.WithOrderBy(database.Descending(&accountRepo.T.ID)),
		)
		assert.NilError(t, err)
		assert.DeepEqual(t, accountIDs(accounts), []int64{18, 19, 20})
	}

	{ // A filtered page binds the repeated predicate each time it appears
		accounts, err := accountRepo.SelectPage(
			t.Context(),
			10,
			10,
			database.WithAdditionalWhere(database.And(
				database.GreaterThan(&accountRepo.T.Age, 30),
			)),
		)
		assert.NilError(t, err)
		assert.DeepEqual(t, accountIDs(accounts), []int64{21, 22, 23, 24, 25})
	}

	{ // Single rows are limited and decoded
		account, err := accountRepo.SelectSingle(t.Context(), database.WithAdditionalWhere(
			database.And(
				database.Equal(&accountRepo.T.Email, "user-7@example.com"),
			),
		))
		assert.NilError(t, err)
		assert.Equal(t, account.ID, int64(7))
		assert.Equal(t, account.Age, 27)
		assert.Equal(t, account.Settings.FavoriteColor, "color-7")
	}

	{ // Missing rows
		_, err := accountRepo.SelectSingle(t.Context(), database.WithAdditionalWhere(
			database.And(
				database.Equal(&accountRepo.T.ID, 999),
			),
		))
		assert.ErrorIs(t, err, database.ErrNoRows)
	}

	{ // Invalid windows are rejected before reaching the database
		_, err := accountRepo.SelectPage(t.Context(), -1, 10)
		assert.ErrorIs(t, err, pager.ErrInvalidArgument)

		_, err = accountRepo.SelectPage(t.Context(), 0, 0)
		assert.ErrorIs(t, err, pager.ErrInvalidArgument)
	}
}
