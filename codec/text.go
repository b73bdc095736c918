package codec

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
)

// producerVersion is stamped into the text header comment block.
const producerVersion = "0.1.0"

const countDirective = "Number of events:"

func parseText(data []byte, logger *slog.Logger) (*EventData, error) {
	var events *EventData

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNo := 0
	index := 0
	surplus := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || line[0] == '#' {
			continue
		}

		if strings.Contains(line, countDirective) {
			fields := strings.Fields(line)
			n, err := strconv.Atoi(fields[len(fields)-1])
			if err != nil || n < 0 {
				return nil, &LineError{Line: lineNo, Cause: fmt.Errorf("bad event count %q", fields[len(fields)-1])}
			}
			events = &EventData{
				X:      make([]float32, n),
				Y:      make([]float32, n),
				Z:      make([]float32, n),
				Radius: make([]float32, n),
				Value:  make([]float32, n),
			}
			continue
		}

		if events == nil {
			return nil, ErrMissingEventCount
		}

		fields := strings.Fields(line)
		if len(fields) != 5 {
			return nil, &LineError{Line: lineNo, Cause: fmt.Errorf("expected 5 fields, got %d", len(fields))}
		}

		if index >= events.Len() {
			// Preserved permissive behavior: surplus events are dropped.
			surplus++
			index++
			continue
		}

		var row [5]float32
		for f, tok := range fields {
			v, err := strconv.ParseFloat(tok, 32)
			if err != nil {
				return nil, &LineError{Line: lineNo, Cause: fmt.Errorf("bad float %q", tok)}
			}
			row[f] = float32(v)
		}

		events.X[index] = row[0]
		events.Y[index] = row[1]
		events.Z[index] = row[2]
		events.Radius[index] = row[3]
		events.Value[index] = row[4]
		index++
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if events == nil {
		return nil, ErrMissingEventCount
	}

	if surplus > 0 {
		logger.Warn("event file has more data lines than declared, surplus dropped",
			"declared", events.Len(),
			"surplus", surplus,
		)
	}

	return events, nil
}

func encodeText(w io.Writer, buf eventColumns) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# voxevents events (3D position, radius and value), in the following format:\n")
	fmt.Fprintf(bw, "#     posX posY posZ radius value\n")
	fmt.Fprintf(bw, "# File version: %d\n", Version)
	fmt.Fprintf(bw, "# voxevents version: %s\n", producerVersion)
	fmt.Fprintf(bw, "%s %d\n", countDirective, buf.Len())

	xs, ys, zs := buf.PositionsX(), buf.PositionsY(), buf.PositionsZ()
	radii, values := buf.Radii(), buf.Values()

	row := make([]byte, 0, 80)
	for i := 0; i < buf.Len(); i++ {
		row = row[:0]
		row = strconv.AppendFloat(row, float64(xs[i]), 'g', -1, 32)
		row = append(row, ' ')
		row = strconv.AppendFloat(row, float64(ys[i]), 'g', -1, 32)
		row = append(row, ' ')
		row = strconv.AppendFloat(row, float64(zs[i]), 'g', -1, 32)
		row = append(row, ' ')
		row = strconv.AppendFloat(row, float64(radii[i]), 'g', -1, 32)
		row = append(row, ' ')
		row = strconv.AppendFloat(row, float64(values[i]), 'g', -1, 32)
		row = append(row, '\n')
		if _, err := bw.Write(row); err != nil {
			return err
		}
	}

	return bw.Flush()
}
