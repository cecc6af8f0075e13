package currentrms

import "errors"

var (
	// ErrOpportunityNotFound возвращается, когда заявка не найдена в Current RMS
	ErrOpportunityNotFound = errors.New("opportunity not found in current rms")

	// ErrUnauthorized возвращается при неверном токене или поддомене
	ErrUnauthorized = errors.New("currentrms client: unauthorized")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("currentrms client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("currentrms client: invalid response")

	// ErrUnavailable возвращается, когда Current RMS недоступен после всех повторов
	ErrUnavailable = errors.New("currentrms client: service unavailable")
)
