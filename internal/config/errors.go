package config

import "errors"

var (
	// ErrReadConfig возвращается, если файл конфигурации не удалось прочитать или разобрать
	ErrReadConfig = errors.New("config: failed to read config")

	// ErrInvalidConfig возвращается, если значения конфигурации некорректны
	ErrInvalidConfig = errors.New("config: invalid config")
)
