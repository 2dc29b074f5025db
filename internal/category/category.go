package category

// Category identifies the destination folder a file is sorted into.
type Category string

const (
	Images     Category = "Images"
	Documents  Category = "Documents"
	PDFs       Category = "PDFs"
	Archives   Category = "Archives"
	Installers Category = "Installers"
	Video      Category = "Video"
	Audio      Category = "Audio"
	Code       Category = "Code"
	Others     Category = "Others"
)

// DuplicatesDir is the destination folder for duplicate copies. It is not a
// category: files land there via content matching, never by extension.
const DuplicatesDir = "Duplicates"

// All lists every category in presentation order.
func All() []Category {
	return []Category{Images, Documents, PDFs, Archives, Installers, Video, Audio, Code, Others}
}

// ordered pairs each category with its extensions. dmg appears under both
// Archives and Installers in common usage; Archives is listed first and wins,
// keeping the mapping total and deterministic.
var ordered = []struct {
	category   Category
	extensions []string
}{
	{Images, []string{"jpg", "jpeg", "png", "gif", "bmp", "svg", "webp", "ico", "tiff", "heic"}},
	{Documents, []string{"doc", "docx", "txt", "rtf", "odt", "pages", "tex", "wpd", "wps"}},
	{PDFs, []string{"pdf"}},
	{Archives, []string{"zip", "rar", "7z", "tar", "gz", "bz2", "xz", "iso", "dmg"}},
	{Installers, []string{"exe", "msi", "dmg", "pkg", "deb", "rpm", "appimage"}},
	{Video, []string{"mp4", "avi", "mkv", "mov", "wmv", "flv", "webm", "m4v", "mpg", "mpeg"}},
	{Audio, []string{"mp3", "wav", "flac", "aac", "ogg", "wma", "m4a", "opus"}},
	{Code, []string{
		"py", "js", "java", "cpp", "c", "h", "cs", "php", "rb", "go", "rs", "swift",
		"kt", "ts", "jsx", "tsx", "html", "css", "scss", "json", "xml", "yaml", "yml",
		"sh", "bat", "ps1",
	}},
}

var byExtension = buildIndex()

func buildIndex() map[string]Category {
	index := make(map[string]Category, 96)
	for _, group := range ordered {
		for _, ext := range group.extensions {
			if _, exists := index[ext]; exists {
				continue
			}
			index[ext] = group.category
		}
	}
	return index
}

// FromExtension maps a lowercased extension (no dot) to its Category. Unknown
// or empty extensions map to Others, so the function is total.
func FromExtension(ext string) Category {
	if c, ok := byExtension[ext]; ok {
		return c
	}
	return Others
}

// FolderName returns the directory name for the category under the target root.
func (c Category) FolderName() string {
	return string(c)
}
