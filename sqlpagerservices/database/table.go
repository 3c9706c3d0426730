package database

import (
	"fmt"
	"reflect"

	"github.com/lunagic/sqlpager/sqlpagerservices/database/internal/utils"
)

type ErrUnsupportedType struct {
	Type string
}

func (err ErrUnsupportedType) Error() string {
	return fmt.Sprintf("unsupported type: %s", err.Type)
}

type Entity interface {
	TableStructure() Table
}

type Table struct {
	Name string
}

// generateBaseQuery selects every tagged column of e. Primary key columns
// become the query's keys.
func generateBaseQuery(e Entity) (Query, error) {
	if e.TableStructure().Name == "" {
		return Query{}, ErrBlankQuery
	}

	selects := []string{}
	keys := []string{}
	for _, field := range utils.ColumnFields(reflect.ValueOf(e)) {
		selects = append(selects, field.Tag.Column)
		if field.Tag.PrimaryKey {
			keys = append(keys, field.Tag.Column)
		}
	}

	if len(selects) == 0 {
		return Query{}, ErrUnsupportedType{
			Type: reflect.TypeOf(e).String(),
		}
	}

	return Query{
		Select: selects,
		From:   e.TableStructure().Name,
		Keys:   keys,
	}, nil
}
