package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/lunagic/sqlpager/sqlpagerservices/database/internal/utils"
)

type Service struct {
	driver            Driver
	standardLibraryDB *sql.DB
	preRunFuncs       []func(ctx context.Context, statement string, args []any) error
	postRunFuncs      []func(ctx context.Context) error
	mapping           map[uintptr]columnReference
}

func New(
	driver Driver,
	configFuncs ...ServiceConfigFunc,
) (*Service, error) {
	db, err := driver.Open()
	if err != nil {
		return nil, err
	}

	service := &Service{
		driver:            driver,
		standardLibraryDB: db,
		preRunFuncs:       []func(ctx context.Context, statement string, args []any) error{},
		postRunFuncs:      []func(ctx context.Context) error{},
		mapping:           map[uintptr]columnReference{},
	}

	driver.setMapping(service.mapping)

	for _, configFunc := range configFuncs {
		if err := configFunc(service); err != nil {
			return nil, err
		}
	}

	return service, nil
}

func (service *Service) Ping() error {
	return service.standardLibraryDB.Ping()
}

func (service *Service) Close() error {
	return service.standardLibraryDB.Close()
}

// runSelect scans every row into targetPointer, a pointer to a slice of
// structs whose db tags name the result columns.
func (service *Service) runSelect(
	ctx context.Context,
	statement statement,
	targetPointer any,
) error {
	targetType := reflect.TypeOf(targetPointer)
	if targetType.Kind() != reflect.Pointer || targetType.Elem().Kind() != reflect.Slice || targetType.Elem().Elem().Kind() != reflect.Struct {
		return ErrUnsupportedType{
			Type: targetType.String(),
		}
	}

	preparedQuery, preparedArgs, err := utils.Prepare(statement.Query, statement.Parameters, service.driver.placeholder)
	if err != nil {
		return err
	}

	if preparedQuery == "" {
		return ErrBlankQuery
	}

	for _, preRunFunc := range service.preRunFuncs {
		if err := preRunFunc(ctx, preparedQuery, preparedArgs); err != nil {
			return err
		}
	}

	rows, err := service.standardLibraryDB.QueryContext(ctx, preparedQuery, preparedArgs...)
	if err != nil {
		return err
	}
	defer func() {
		_ = rows.Close()
	}()

	columns, err := rows.Columns()
	if err != nil {
		return err
	}

	target := reflect.ValueOf(targetPointer).Elem()
	rowType := targetType.Elem().Elem()

	rowMap := map[string]int{}
	for _, field := range utils.ColumnFields(reflect.New(rowType)) {
		rowMap[field.Tag.Column] = field.Index
	}

	fieldIndexesToUse := []int{}
	for _, column := range columns {
		fieldIndex, found := rowMap[column]
		if !found {
			return fmt.Errorf("%w: column %s not found in target", ErrUnknownColumn, column)
		}

		fieldIndexesToUse = append(fieldIndexesToUse, fieldIndex)
	}

	for rows.Next() {
		row := reflect.New(rowType).Elem()

		scanFields := []any{}
		jsonMapping := map[int]*string{}
		for _, fieldIndexToUse := range fieldIndexesToUse {
			if shouldBeJson(rowType.Field(fieldIndexToUse)) {
				// Scan into a string and unmarshal once the row is read
				jsonString := ""
				jsonMapping[fieldIndexToUse] = &jsonString
				scanFields = append(scanFields, &jsonString)
			} else {
				scanFields = append(scanFields, row.Field(fieldIndexToUse).Addr().Interface())
			}
		}

		if err := rows.Scan(scanFields...); err != nil {
			return err
		}

		for fieldIndexToUse, jsonString := range jsonMapping {
			if err := json.Unmarshal([]byte(*jsonString), row.Field(fieldIndexToUse).Addr().Interface()); err != nil {
				return err
			}
		}

		target.Set(reflect.Append(target, row))
	}

	if err := rows.Err(); err != nil {
		return err
	}

	for _, postRunFunc := range service.postRunFuncs {
		if err := postRunFunc(ctx); err != nil {
			return err
		}
	}

	return nil
}

func shouldBeJson(fieldDefinition reflect.StructField) bool {
	// JSON encode slices
	if fieldDefinition.Type.Kind() == reflect.Slice {
		return fieldDefinition.Type.Elem().Kind() != reflect.Uint8
	}

	// JSON encode structs
	if fieldDefinition.Type.Kind() == reflect.Struct {
		// Don't JSON encode time.Time
		if reflect.TypeFor[time.Time]() == fieldDefinition.Type {
			return false
		}

		return true
	}

	return false
}
