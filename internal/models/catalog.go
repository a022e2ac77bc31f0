package models

import (
	"fmt"
	"strings"

	"github.com/pribylovaa/courtside/internal/pagination"
)

// Definition — описание ресурса REST-бэкенда: имя для маршрутов,
// разрешённые поля сортировки и обязательные поля при создании.
type Definition struct {
	// Name — имя ресурса в маршрутах (/api/{Name}/Get{Name}s).
	Name string
	// SortFields — поля, по которым разрешена курсорная выдача.
	SortFields []pagination.SortField
	// DefaultSort — поле при пустом sortBy.
	DefaultSort string
	// Required — поля, без которых Create отклоняется с 400.
	Required []string
}

// ParseSort разбирает sortBy относительно полей ресурса.
func (d Definition) ParseSort(raw string) (pagination.Sort, error) {
	return pagination.ParseSort(raw, d.SortFields, d.DefaultSort)
}

// Имена ресурсов.
const (
	ResourceRun          = "Run"
	ResourceGame         = "Game"
	ResourceUser         = "User"
	ResourceProduct      = "Product"
	ResourceVideo        = "Video"
	ResourcePost         = "Post"
	ResourceRequest      = "Request"
	ResourceSubscription = "Subscription"
	ResourcePrivateRun   = "PrivateRun"
	ResourceJoinedRun    = "JoinedRun"
	ResourceClient       = "Client"
	ResourceReport       = "Report"
)

func asc(name string) pagination.SortField  { return pagination.SortField{Name: name} }
func desc(name string) pagination.SortField { return pagination.SortField{Name: name, Desc: true} }

var catalog = []Definition{
	{
		Name:        ResourceRun,
		SortFields:  []pagination.SortField{asc("Id"), asc("Name"), asc("City"), desc("RunDate"), desc("Points"), desc("PlayerCount"), desc("CreatedDate")},
		DefaultSort: "RunDate",
		Required:    []string{"name", "runDate"},
	},
	{
		Name:        ResourceGame,
		SortFields:  []pagination.SortField{asc("Id"), asc("RunId"), asc("Status"), desc("GameDate"), desc("CreatedDate")},
		DefaultSort: "GameDate",
		Required:    []string{"runId"},
	},
	{
		Name:        ResourceUser,
		SortFields:  []pagination.SortField{asc("Id"), asc("UserName"), asc("Email"), desc("Points"), desc("Rating"), desc("CreatedDate")},
		DefaultSort: "UserName",
		Required:    []string{"userName", "email"},
	},
	{
		Name:        ResourceProduct,
		SortFields:  []pagination.SortField{asc("Id"), asc("Name"), asc("Category"), asc("Price"), desc("Stock"), desc("CreatedDate")},
		DefaultSort: "Name",
		Required:    []string{"name", "price"},
	},
	{
		Name:        ResourceVideo,
		SortFields:  []pagination.SortField{asc("Id"), asc("Title"), desc("Views"), desc("Duration"), desc("CreatedDate")},
		DefaultSort: "CreatedDate",
		Required:    []string{"title"},
	},
	{
		Name:        ResourcePost,
		SortFields:  []pagination.SortField{asc("Id"), asc("Title"), asc("Author"), asc("Category"), desc("PublishedDate")},
		DefaultSort: "PublishedDate",
		Required:    []string{"title"},
	},
	{
		Name:        ResourceRequest,
		SortFields:  []pagination.SortField{asc("Id"), asc("RunId"), asc("UserId"), asc("Status"), desc("CreatedDate")},
		DefaultSort: "CreatedDate",
		Required:    []string{"runId", "userId"},
	},
	{
		Name:        ResourceSubscription,
		SortFields:  []pagination.SortField{asc("Id"), asc("UserId"), asc("Plan"), asc("Price"), desc("StartDate"), desc("EndDate")},
		DefaultSort: "StartDate",
		Required:    []string{"userId", "plan"},
	},
	{
		Name:        ResourcePrivateRun,
		SortFields:  []pagination.SortField{asc("Id"), asc("Name"), asc("OwnerId"), desc("RunDate"), desc("CreatedDate")},
		DefaultSort: "RunDate",
		Required:    []string{"ownerId", "name"},
	},
	{
		Name:        ResourceJoinedRun,
		SortFields:  []pagination.SortField{asc("Id"), asc("RunId"), asc("UserId"), asc("Status"), desc("JoinedDate")},
		DefaultSort: "JoinedDate",
		Required:    []string{"runId", "userId"},
	},
	{
		Name:        ResourceClient,
		SortFields:  []pagination.SortField{asc("Id"), asc("Name"), asc("Company"), asc("Status"), desc("CreatedDate")},
		DefaultSort: "Name",
		Required:    []string{"name"},
	},
	{
		Name:        ResourceReport,
		SortFields:  []pagination.SortField{asc("Id"), asc("Title"), asc("Type"), asc("Status"), desc("CreatedDate")},
		DefaultSort: "CreatedDate",
		Required:    []string{"title", "type"},
	},
}

// Catalog возвращает описания всех ресурсов (копию).
func Catalog() []Definition {
	out := make([]Definition, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup ищет ресурс по имени без учёта регистра.
func Lookup(name string) (Definition, bool) {
	for _, d := range catalog {
		if strings.EqualFold(d.Name, name) {
			return d, true
		}
	}

	return Definition{}, false
}

// MustLookup — Lookup для имён из констант пакета; паникует на опечатке.
func MustLookup(name string) Definition {
	d, ok := Lookup(name)
	if !ok {
		panic(fmt.Sprintf("models: unknown resource %q", name))
	}

	return d
}

// Routes — пути операций ресурса относительно базового URL.
type Routes struct {
	List       string `yaml:"list"`
	ByID       string `yaml:"by_id"`
	WithCursor string `yaml:"with_cursor"`
	Create     string `yaml:"create"`
	Update     string `yaml:"update"`
	Delete     string `yaml:"delete"`
}

// DefaultRoutes строит маршруты по шаблону /api/{R}/Get{R}s и т.д.
func DefaultRoutes(name string) Routes {
	base := "/api/" + name + "/"
	return Routes{
		List:       base + "Get" + name + "s",
		ByID:       base + "Get" + name + "ById",
		WithCursor: base + "Get" + name + "sWithCursor",
		Create:     base + "Create" + name,
		Update:     base + "Update" + name,
		Delete:     base + "Delete" + name,
	}
}

// Merge подставляет непустые пути из override поверх r.
func (r Routes) Merge(override Routes) Routes {
	pick := func(cur, o string) string {
		if o != "" {
			return o
		}
		return cur
	}

	return Routes{
		List:       pick(r.List, override.List),
		ByID:       pick(r.ByID, override.ByID),
		WithCursor: pick(r.WithCursor, override.WithCursor),
		Create:     pick(r.Create, override.Create),
		Update:     pick(r.Update, override.Update),
		Delete:     pick(r.Delete, override.Delete),
	}
}
