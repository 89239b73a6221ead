package imaging

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/fogleman/gg"
	"github.com/qrattend/attendance_service/internal/model"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
)

// FontStyle определяет стиль шрифта
type FontStyle string

const (
	FontStyleDefault FontStyle = "" // Regular
	FontStyleMedium  FontStyle = "medium"
	FontStyleBold    FontStyle = "bold"
)

// Константы размеров и отступов
const (
	imageWidth      = 1400
	imageHeight     = 900
	headerHeight    = 100
	leftLabelsWidth = 80
	legendWidth     = 140
	dayPaddingX     = 8
	minEntryHeight  = 8.0
	entryRadius     = 6.0
	shadowOffset    = 3.0
	totalDaysInWeek = 7
	hourPaddingTop  = 1
	hourPaddingBot  = 1
	defaultMinHour  = 8
	defaultMaxHour  = 20
)

// Константы шрифтов
const (
	titleFontSize      = 25.0
	dayFontSize        = 27.0
	hourLabelFontSize  = 18.0
	entryTimeFontSize  = 17.0
	legendItemFontSize = 12.0
)

// Цветовая схема
var (
	bgColor        = color.RGBA{245, 246, 248, 255}
	textColor      = color.RGBA{80, 85, 90, 220}
	hourLabelColor = color.RGBA{110, 115, 120, 200}
	hourLineColor  = color.NRGBA{150, 150, 150, 255}
	evenDayColor   = color.NRGBA{240, 240, 240, 255}
	oddDayColor    = color.NRGBA{220, 220, 220, 255}

	entryBothColor  = color.RGBA{133, 193, 85, 220}
	entryOddColor   = color.RGBA{255, 182, 193, 255}
	entryEvenColor  = color.RGBA{140, 180, 235, 220}
	entryTextColor  = color.RGBA{20, 24, 28, 230}
	entryShadow     = color.RGBA{0, 0, 0, 20}
	legendTextColor = color.RGBA{70, 74, 78, 220}
)

// hourRange содержит диапазон часов для отображения
type hourRange struct {
	start int
	end   int
	total int
}

// entry подготовленная к отрисовке пара
type entry struct {
	schedule  *model.Schedule
	startHour float64
	endHour   float64
}

var (
	fontDir     string
	cachedFonts = make(map[FontStyle]*opentype.Font)
	fontMu      sync.Mutex
)

// SetFontDir задаёт каталог с ttf-шрифтами (Libertinus Serif).
// Без него используется встроенный basicfont.
func SetFontDir(dir string) {
	fontDir = dir
}

var fontFiles = map[FontStyle]string{
	FontStyleDefault: "LibertinusSerif-Regular.ttf",
	FontStyleMedium:  "LibertinusSerif-SemiBold.ttf",
	FontStyleBold:    "LibertinusSerif-Bold.ttf",
}

// loadFont загружает шрифт указанного стиля или использует basicfont как fallback
func loadFont(dc *gg.Context, size float64, style ...FontStyle) {
	var fontStyle FontStyle = FontStyleDefault
	if len(style) > 0 {
		fontStyle = style[0]
	}

	if fontDir == "" {
		dc.SetFontFace(basicfont.Face7x13)
		return
	}

	fontMu.Lock()
	cachedFont, ok := cachedFonts[fontStyle]
	if !ok {
		data, err := os.ReadFile(filepath.Join(fontDir, fontFiles[fontStyle]))
		if err == nil {
			if parsed, err := opentype.Parse(data); err == nil {
				cachedFont = parsed
			}
		}
		cachedFonts[fontStyle] = cachedFont
	}
	fontMu.Unlock()

	if cachedFont != nil {
		face, err := opentype.NewFace(cachedFont, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err == nil {
			dc.SetFontFace(face)
			return
		}
	}

	// fallback к встроенному шрифту
	dc.SetFontFace(basicfont.Face7x13)
}

// GenerateWeekImage генерирует изображение недельного расписания группы.
// subjectNames - map subjectID -> название предмета для подписей пар.
func GenerateWeekImage(groupName string, schedules []*model.Schedule, subjectNames map[int64]string) ([]byte, error) {
	entries := prepareEntries(schedules)
	hours := calculateHourRange(entries)

	dc := createCanvas()
	dayWidth := (imageWidth - leftLabelsWidth - legendWidth) / totalDaysInWeek
	dayHeight := imageHeight - headerHeight
	cellHeight := float64(dayHeight) / float64(hours.total)

	drawHeader(dc, groupName)
	drawHourLabels(dc, hours, cellHeight)
	drawDays(dc, entries, hours, dayWidth, dayHeight, cellHeight, subjectNames)
	drawLegend(dc, dayWidth)

	return encodeImage(dc)
}

// prepareEntries отбрасывает пары с нечитаемым временем и переводит
// "HH:MM" в дробные часы для раскладки по сетке
func prepareEntries(schedules []*model.Schedule) []entry {
	var entries []entry
	for _, schedule := range schedules {
		start, ok := parseClock(schedule.StartTime)
		if !ok {
			continue
		}
		end, ok := parseClock(schedule.EndTime)
		if !ok {
			continue
		}
		entries = append(entries, entry{
			schedule:  schedule,
			startHour: start,
			endHour:   end,
		})
	}
	return entries
}

// parseClock переводит "HH:MM" в дробные часы
func parseClock(value string) (float64, bool) {
	if len(value) != 5 || value[2] != ':' {
		return 0, false
	}
	hour, err := strconv.Atoi(value[:2])
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	minute, err := strconv.Atoi(value[3:])
	if err != nil || minute < 0 || minute > 59 {
		return 0, false
	}
	return float64(hour) + float64(minute)/60.0, true
}

// calculateHourRange определяет диапазон часов для отображения
func calculateHourRange(entries []entry) hourRange {
	minHour := 24
	maxHour := 0

	for _, e := range entries {
		startH := int(e.startHour)
		endH := int(e.endHour)
		if e.endHour > float64(endH) {
			endH++
		}
		if startH < minHour {
			minHour = startH
		}
		if endH > maxHour {
			maxHour = endH
		}
	}

	if minHour == 24 {
		minHour = defaultMinHour
		maxHour = defaultMaxHour
	}

	startHour := minHour - hourPaddingTop
	endHour := maxHour + hourPaddingBot
	if startHour < 0 {
		startHour = 0
	}
	if endHour > 23 {
		endHour = 23
	}

	return hourRange{
		start: startHour,
		end:   endHour,
		total: endHour - startHour + 1,
	}
}

// createCanvas создает новый контекст рисования с фоном
func createCanvas() *gg.Context {
	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(bgColor)
	dc.Clear()
	return dc
}

// drawHeader рисует заголовок с названием группы
func drawHeader(dc *gg.Context, groupName string) {
	title := "Расписание группы " + groupName

	loadFont(dc, titleFontSize, FontStyleBold)
	dc.SetColor(textColor)
	_, h := dc.MeasureString(title)
	dc.DrawStringAnchored(title, float64(imageWidth)/2, float64(headerHeight)/8+h/2, 0.5, 0)
}

// drawHourLabels рисует колонку с часами слева
func drawHourLabels(dc *gg.Context, hours hourRange, cellHeight float64) {
	loadFont(dc, hourLabelFontSize, FontStyleMedium)
	dc.SetColor(hourLabelColor)

	for hIdx := 0; hIdx < hours.total; hIdx++ {
		actualHour := hours.start + hIdx
		y := float64(headerHeight) + float64(hIdx)*cellHeight
		dc.DrawStringAnchored(formatHourLabel(actualHour), float64(leftLabelsWidth)-10, y, 1, 0.5)
	}
}

// drawDays рисует колонки дней недели с парами
func drawDays(dc *gg.Context, entries []entry, hours hourRange, dayWidth, dayHeight int, cellHeight float64, subjectNames map[int64]string) {
	for dayIndex := 0; dayIndex < totalDaysInWeek; dayIndex++ {
		x := float64(leftLabelsWidth + dayIndex*dayWidth)
		y := float64(headerHeight)

		drawDayBackground(dc, x, y, dayWidth, dayHeight, dayIndex)
		drawDayHeader(dc, dayIndex, x, y, dayWidth)
		drawHourLines(dc, x, y, dayWidth, hours, cellHeight)

		for _, e := range entries {
			// дни недели в расписании нумеруются с понедельника (1)
			if e.schedule.DayOfWeek == dayIndex+1 {
				drawEntry(dc, e, x, y, dayWidth, hours, cellHeight, subjectNames)
			}
		}
	}
}

// drawDayBackground рисует фон дня
func drawDayBackground(dc *gg.Context, x, y float64, dayWidth, dayHeight, dayIndex int) {
	if dayIndex%2 == 0 {
		dc.SetColor(evenDayColor)
	} else {
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, y, float64(dayWidth), float64(dayHeight))
	dc.Fill()
}

// drawDayHeader рисует название дня недели
func drawDayHeader(dc *gg.Context, dayIndex int, x, y float64, dayWidth int) {
	loadFont(dc, dayFontSize, FontStyleBold)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(weekdayShort(dayIndex), x+float64(dayWidth)/2, y, 0.5, -0.5)
}

// drawHourLines рисует горизонтальные линии часов
func drawHourLines(dc *gg.Context, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	dc.SetLineWidth(0.3)
	dc.SetColor(hourLineColor)

	for hIdx := 0; hIdx <= hours.total; hIdx++ {
		hy := y + float64(hIdx)*cellHeight
		dc.DrawLine(x, hy, x+float64(dayWidth), hy)
		dc.Stroke()
	}
}

// drawEntry рисует одну пару
func drawEntry(dc *gg.Context, e entry, x, y float64, dayWidth int, hours hourRange, cellHeight float64, subjectNames map[int64]string) {
	entryY := y + (e.startHour-float64(hours.start))*cellHeight
	entryHeight := (e.endHour - e.startHour) * cellHeight
	if entryHeight < minEntryHeight {
		entryHeight = minEntryHeight
	}

	fillColor := entryColor(e.schedule.WeekType)
	entryWidth := float64(dayWidth) - float64(dayPaddingX*2)

	// Тень
	dc.SetColor(entryShadow)
	dc.DrawRoundedRectangle(x+dayPaddingX+shadowOffset, entryY+2+shadowOffset, entryWidth, entryHeight-4, entryRadius)
	dc.Fill()

	// Основной прямоугольник
	dc.SetColor(fillColor)
	dc.DrawRoundedRectangle(x+float64(dayPaddingX), entryY+2, entryWidth, entryHeight-4, entryRadius)
	dc.Fill()

	// Рамка
	dc.SetColor(darkenColor(fillColor, 0.8))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(x+float64(dayPaddingX), entryY+2, entryWidth, entryHeight-4, entryRadius)
	dc.Stroke()

	// Время и аудитория
	loadFont(dc, entryTimeFontSize, FontStyleMedium)
	dc.SetColor(entryTextColor)
	txtX := x + float64(dayPaddingX) + 8
	txtY := entryY + 8 + 10
	dc.DrawStringAnchored(e.schedule.StartTime+" · "+e.schedule.Classroom, txtX, txtY, 0, 0)

	// Название предмета, если есть место
	name := subjectNames[e.schedule.SubjectID]
	if name != "" && entryHeight > 25 {
		maxLen := 24
		if len([]rune(name)) > maxLen {
			name = string([]rune(name)[:maxLen-3]) + "..."
		}
		loadFont(dc, entryTimeFontSize-2, FontStyleMedium)
		dc.SetColor(entryTextColor)
		dc.DrawStringAnchored(name, txtX, txtY+16, 0, 0)
	}
}

// entryColor возвращает цвет пары по чётности недели
func entryColor(weekType model.WeekType) color.RGBA {
	switch weekType {
	case model.WeekTypeOdd:
		return entryOddColor
	case model.WeekTypeEven:
		return entryEvenColor
	default:
		return entryBothColor
	}
}

// darkenColor затемняет цвет на указанный множитель
func darkenColor(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

// drawLegend рисует легенду справа
func drawLegend(dc *gg.Context, dayWidth int) {
	legendX := float64(leftLabelsWidth + totalDaysInWeek*dayWidth + 10)
	legendY := float64(imageHeight) - 100.0

	legendItems := []struct {
		Label string
		Clr   color.Color
	}{
		{"Каждую неделю", entryBothColor},
		{"Нечётная неделя", entryOddColor},
		{"Чётная неделя", entryEvenColor},
	}

	boxW := 20.0
	boxH := 14.0
	liX := legendX
	liY := legendY + 22

	for _, item := range legendItems {
		dc.SetColor(item.Clr)
		dc.DrawRoundedRectangle(liX, liY, boxW, boxH, 3)
		dc.Fill()

		loadFont(dc, legendItemFontSize)
		dc.SetColor(legendTextColor)
		dc.DrawStringAnchored(item.Label, liX+boxW+8, liY+boxH/2+1, 0, 0.2)
		liY += boxH + 14
	}
}

// encodeImage кодирует изображение в PNG
func encodeImage(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// формат числа с двумя цифрами
func formatTwoDigits(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

func formatHourLabel(h int) string {
	return formatTwoDigits(h) + ":00"
}

// короткие дни недели, нумерация с понедельника
func weekdayShort(dayIndex int) string {
	weekdays := [totalDaysInWeek]string{"Пн", "Вт", "Ср", "Чт", "Пт", "Сб", "Вс"}
	return weekdays[dayIndex]
}
