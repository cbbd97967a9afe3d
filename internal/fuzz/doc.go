// Package fuzztests houses Go fuzz harnesses for the segmentation engine
// (source -> scanner -> classifier, and the sharded driver). Its goal is to
// catch panics, hangs and broken chunk invariants on arbitrary inputs.
//
// Назначение: прогонять произвольные байты через scanner.Segment и
// driver.SegmentText и проверять инварианты из internal/testkit.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/grammar, internal/scanner, internal/driver,
// internal/diag, internal/testkit.
package fuzztests
