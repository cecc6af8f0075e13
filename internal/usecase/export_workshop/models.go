package export_workshop

// ContentType MIME тип книги Excel
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Request модель запроса выгрузки
type Request struct {
	Days int
}

// Response готовый файл выгрузки
type Response struct {
	FileName string
	Content  []byte
	Rows     int
}
