// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package category

// 🗂️ defaultCategories is the built-in table in priority order.
// Each extension belongs to exactly one category.
var defaultCategories = []Category{
	{Name: Applications, Extensions: []string{".app", ".vst3", ".dmg"}},
	{Name: LogicProjects, Extensions: []string{".logicx"}},
	{Name: Screenshots},
	{Name: ScreenRecordings},
	{Name: Images, Extensions: []string{
		".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tiff", ".raw", ".webp", ".svg",
		".ico", ".psd", ".ai", ".eps", ".heic", ".ase", ".jpg_medium", ".jpg_large",
		".png_small", ".exr", ".hdr",
	}},
	{Name: Documents, Extensions: []string{
		".pdf", ".doc", ".docx", ".txt", ".rtf", ".odt", ".md", ".csv", ".xls",
		".xlsx", ".ppt", ".pptx", ".pages", ".numbers", ".key", ".epub", ".mobi",
		".indd", ".strings", ".vcf", ".ans", ".geojson", ".hex",
	}},
	{Name: Audio, Extensions: []string{
		".mp3", ".wav", ".flac", ".m4a", ".aac", ".mid", ".midi", ".ogg", ".wma",
		".aiff", ".opus", ".ac", ".aif", ".srt",
	}},
	{Name: Video, Extensions: []string{
		".mp4", ".mov", ".avi", ".mkv", ".wmv", ".flv", ".webm", ".m4v", ".3gp",
		".mpg", ".mpeg", ".vob", ".ts", ".mpd",
	}},
	{Name: Archives, Extensions: []string{
		".zip", ".rar", ".7z", ".tar", ".gz", ".bz2", ".xz", ".iso",
		".apk", ".torrent", ".pkg", ".msi",
	}},
	{Name: Code, Extensions: []string{
		".py", ".js", ".html", ".css", ".java", ".cpp", ".php", ".rb", ".swift",
		".json", ".xml", ".sql", ".sh", ".bat", ".ps1", ".go", ".rs", ".tsx", ".jsx",
		".vue", ".project", ".glsl", ".p8",
	}},
	{Name: Config, Extensions: []string{
		".ini", ".cfg", ".conf", ".plist", ".yaml", ".yml", ".env", ".gitignore",
		".dockerignore", ".cer", ".mobileconfig", ".icns", ".nib", ".car",
	}},
	{Name: ThreeD, Extensions: []string{
		".obj", ".fbx", ".blend", ".blend1", ".stl", ".3ds", ".dae", ".3dm", ".dwg",
		".skp", ".stp", ".mtl", ".gltf", ".glb", ".usdz", ".lwo", ".usdc",
	}},
	{Name: Design, Extensions: []string{".sketch", ".cdr"}},
	{Name: Fonts, Extensions: []string{".ttf", ".otf", ".woff", ".woff2", ".eot"}},
	{Name: ML, Extensions: []string{".pth", ".safetensors"}},
	{Name: Folders},
	{Name: Others},
}

// bundleCategories maps directory-bundle extensions to their category.
var bundleCategories = map[string]string{
	"app":    Applications,
	"vst3":   Applications,
	"logicx": LogicProjects,
}

var screenshotExtensions = map[string]bool{"png": true, "jpg": true, "jpeg": true}

var screenshotMarkers = []string{"screenshot", "screen shot", "screen-shot", "screen_shot"}

var recordingExtensions = map[string]bool{"mov": true, "mp4": true}

var recordingMarkers = []string{"screen recording"}

// 🏭 Default returns the built-in category table
func Default() *Table {
	t, err := NewTable(defaultCategories)
	if err != nil {
		panic(err)
	}
	return t
}
