package weather

import (
	"fmt"
	"strings"
	"time"
)

const (
	clockLayout = "15:04"
	hourLayout  = "2006-01-02 15:04"
	dateLayout  = "2006-01-02"
)

func (c Current) Blocks() []string { return []string{c.CurrentWeather.String()} }

func (h Hourly) Blocks() []string {
	blocks := make([]string, 0, len(h))
	for _, hour := range h {
		blocks = append(blocks, hour.String())
	}
	return blocks
}

func (d Daily) Blocks() []string {
	blocks := make([]string, 0, len(d))
	for _, day := range d {
		blocks = append(blocks, day.String())
	}
	return blocks
}

func (c CurrentWeather) String() string {
	var b block
	b.line("Condition", c.Condition)
	b.line("Temperature", fmt.Sprintf("%s, feels like %s", temp(c.Temp, c.Units), temp(c.FeelsLike, c.Units)))
	b.line("Humidity", percent(c.Humidity))
	b.line("Clouds", percent(c.Clouds))
	b.line("Pressure", hpa(c.Pressure))
	b.line("Wind", wind(c.WindSpeed, c.WindDeg, c.Units))
	b.line("Visibility", optLength(c.Visibility))
	b.line("UV index", fmt.Sprintf("%.1f", c.UVI))
	b.line("Precipitation", optLength(c.Precip))
	b.optTime("Sunrise", c.Sunrise, clockLayout)
	b.optTime("Sunset", c.Sunset, clockLayout)
	return b.String()
}

func (h HourWeather) String() string {
	var b block
	b.line("Time", h.Time.Format(hourLayout))
	b.line("Condition", h.Condition)
	b.line("Temperature", fmt.Sprintf("%s, feels like %s", temp(h.Temp, h.Units), temp(h.FeelsLike, h.Units)))
	b.line("Humidity", percent(h.Humidity))
	b.line("Clouds", percent(h.Clouds))
	b.line("Pressure", hpa(h.Pressure))
	b.line("Wind", wind(h.WindSpeed, h.WindDeg, h.Units))
	b.line("Visibility", optLength(h.Visibility))
	b.line("UV index", fmt.Sprintf("%.1f", h.UVI))
	b.line("Precipitation", optLength(h.Precip))
	return b.String()
}

func (d DayWeather) String() string {
	var b block
	b.line("Date", d.Date.Format(dateLayout))
	b.line("Condition", d.Condition)
	b.line("Temperature", fmt.Sprintf("%s .. %s", temp(d.MinTemp, d.Units), temp(d.MaxTemp, d.Units)))
	if d.AvgTemp != nil {
		b.line("Average", temp(*d.AvgTemp, d.Units))
	}
	if d.FeelsLike != nil {
		b.line("Feels like", temp(*d.FeelsLike, d.Units))
	}
	b.line("Humidity", percent(d.Humidity))
	if d.Clouds != nil {
		b.line("Clouds", percent(*d.Clouds))
	}
	if d.Pressure != nil {
		b.line("Pressure", hpa(*d.Pressure))
	}
	if d.WindDeg != nil {
		b.line("Wind", wind(d.WindSpeed, *d.WindDeg, d.Units))
	} else {
		b.line("Wind", fmt.Sprintf("%.1f %s", d.WindSpeed, d.Units.SpeedLabel()))
	}
	b.line("Visibility", optLength(d.Visibility))
	b.line("UV index", fmt.Sprintf("%.1f", d.UVI))
	b.line("Precipitation", optLength(d.Precip))
	b.optTime("Sunrise", d.Sunrise, clockLayout)
	b.optTime("Sunset", d.Sunset, clockLayout)
	b.optTime("Moonrise", d.Moonrise, clockLayout)
	b.optTime("Moonset", d.Moonset, clockLayout)
	if d.MoonPhase != nil {
		b.line("Moon phase", *d.MoonPhase)
	}
	return b.String()
}

type block struct {
	strings.Builder
}

func (b *block) line(label, value string) {
	if b.Len() > 0 {
		b.WriteByte('\n')
	}
	fmt.Fprintf(b, "%-14s %s", label+":", value)
}

func (b *block) optTime(label string, t *time.Time, layout string) {
	if t == nil {
		return
	}
	b.line(label, t.Format(layout))
}

func temp(v float64, u UnitSystem) string {
	return fmt.Sprintf("%.1f%s", v, u.TemperatureLabel())
}

func percent(v float64) string { return fmt.Sprintf("%.0f%%", v) }

func hpa(v float64) string { return fmt.Sprintf("%.0f hPa", v) }

func wind(speed float64, deg int, u UnitSystem) string {
	return fmt.Sprintf("%.1f %s, %d°", speed, u.SpeedLabel(), deg)
}

func optLength(l *Length) string {
	if l == nil {
		return "no data"
	}
	return l.String()
}
