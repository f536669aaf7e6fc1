package templates

import "github.com/akolanti/scanflow/internal/domain/exportModel"

type FormatCapability struct {
	MultiPage    bool     `json:"multi_page"`
	Compression  bool     `json:"compression"`
	Engines      []string `json:"engines"`
	PageSizing   bool     `json:"page_sizing"`
	Professional bool     `json:"professional"`
	FileSize     string   `json:"file_size"`
}

// Defaults are the built-in templates written on first start.
func Defaults() []exportModel.ExportTemplate {
	base := func(name, desc string, format exportModel.ExportFormat, quality int, c exportModel.Compression) exportModel.ExportTemplate {
		t := exportModel.DefaultTemplate()
		t.Name, t.Description, t.Format, t.Quality, t.Compression = name, desc, format, quality, c
		return t
	}

	highQuality := base("High Quality PDF", "High quality PDF with the advanced engine for professional documents",
		exportModel.FormatPDF, 95, exportModel.CompressionLow)
	highQuality.PDFEngine = exportModel.EngineAdvanced

	fast := base("Fast PDF", "Quick PDF export using the basic engine",
		exportModel.FormatPDF, 85, exportModel.CompressionMedium)

	archive := base("Archive TIFF", "Multi-page TIFF for long-term archival storage",
		exportModel.FormatTIFF, 100, exportModel.CompressionLow)
	archive.AddTimestamp = true

	web := base("Web Images", "Individual PNG files optimized for web use",
		exportModel.FormatPNG, 85, exportModel.CompressionMedium)

	letter := base("Letter Size PDF", "PDF formatted for US Letter size pages",
		exportModel.FormatPDF, 90, exportModel.CompressionMedium)
	letter.PDFEngine = exportModel.EngineAdvanced
	letter.PageSize = exportModel.PageSizeLetter
	letter.Margins = exportModel.Margins{1, 1, 1, 1}

	a4 := base("A4 PDF", "PDF formatted for A4 size pages",
		exportModel.FormatPDF, 90, exportModel.CompressionMedium)
	a4.PDFEngine = exportModel.EngineAdvanced
	a4.PageSize = exportModel.PageSizeA4
	a4.Margins = exportModel.Margins{1, 1, 1, 1}

	email := base("Email Friendly", "Compressed files suitable for email attachment",
		exportModel.FormatPDF, 70, exportModel.CompressionHigh)
	email.CreateFolders = false
	email.OverwriteExisting = true
	email.AddTimestamp = true

	return []exportModel.ExportTemplate{highQuality, fast, archive, web, letter, a4, email}
}

func FormatCapabilities() map[exportModel.ExportFormat]FormatCapability {
	return map[exportModel.ExportFormat]FormatCapability{
		exportModel.FormatPDF: {MultiPage: true, Compression: true, PageSizing: true, Professional: true,
			Engines: []string{string(exportModel.EngineBasic), string(exportModel.EngineAdvanced)}, FileSize: "Medium"},
		exportModel.FormatTIFF: {MultiPage: true, Compression: true, Professional: true,
			Engines: []string{string(exportModel.EngineBasic)}, FileSize: "Large"},
		exportModel.FormatPNG: {Compression: true,
			Engines: []string{string(exportModel.EngineBasic)}, FileSize: "Medium"},
		exportModel.FormatJPEG: {Compression: true,
			Engines: []string{string(exportModel.EngineBasic)}, FileSize: "Small"},
	}
}

func CompressionLevels() map[exportModel.Compression]string {
	return map[exportModel.Compression]string{
		exportModel.CompressionNone:   "No compression - largest file size, fastest processing",
		exportModel.CompressionLow:    "Light compression - good quality, moderate file size",
		exportModel.CompressionMedium: "Balanced compression - good quality/size balance",
		exportModel.CompressionHigh:   "Heavy compression - smaller files, may reduce quality",
	}
}
