package slotledger

import "errors"

var (
	// ErrDayNotFound возвращается, когда для (локация, дата) нет записи в ledger
	ErrDayNotFound = errors.New("slotledger.repository: day slots not found")

	// ErrVersionConflict возвращается, когда запись изменилась между чтением и записью
	// Вызывающий перечитывает день и повторяет read-check-write цикл
	ErrVersionConflict = errors.New("slotledger.repository: day slots version conflict")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("slotledger.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("slotledger.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("slotledger.repository: failed to scan row")

	// ErrEncodeSlots возвращается при ошибке сериализации списка слотов
	ErrEncodeSlots = errors.New("slotledger.repository: failed to encode slots")
)
