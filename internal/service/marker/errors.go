package marker

import "errors"

var (
	// ErrEmptyMarker возвращается, если маркер не задан
	ErrEmptyMarker = errors.New("marker.service: marker must not be empty")

	// ErrSameMarkers возвращается, если открывающий и закрывающий маркеры совпадают
	ErrSameMarkers = errors.New("marker.service: opening and closing markers must differ")
)
